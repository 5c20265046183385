package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"merquelo/database"
	"merquelo/validator"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// RunE is the body of a cobra command
type RunE func(cmd *cobra.Command, args []string) error

type runIDKey struct{}

// RunID returns the id StructuredLogger assigned to the current command run
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// StructuredLogger logs one record per command run with its outcome and
// latency. Rejected input is logged at warn level, every other failure at
// error level.
func StructuredLogger(logger *slog.Logger) func(RunE) RunE {
	return func(next RunE) RunE {
		return func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			runID := uuid.New().String()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, runIDKey{}, runID)
			cmd.SetContext(ctx)

			err := next(cmd, args)

			logAttrs := []slog.Attr{
				slog.String("run_id", runID),
				slog.String("command", cmd.CommandPath()),
				slog.Int("args", len(args)),
				slog.Duration("latency", time.Since(start)),
			}

			if err != nil {
				logAttrs = append(logAttrs, slog.String("error", err.Error()))
				if IsClientError(err) {
					logger.LogAttrs(ctx, slog.LevelWarn, "command rejected", logAttrs...)
				} else {
					logger.LogAttrs(ctx, slog.LevelError, "command failed", logAttrs...)
				}
			} else {
				logger.LogAttrs(ctx, slog.LevelInfo, "command completed", logAttrs...)
			}

			return err
		}
	}
}

// IsClientError reports whether err was caused by the caller's input rather
// than by storage
func IsClientError(err error) bool {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return true
	}
	var uerr UsageError
	if errors.As(err, &uerr) {
		return true
	}
	return errors.Is(err, database.ErrNotFound)
}

// UsageError marks malformed arguments that the validator does not cover
type UsageError struct {
	Msg string
}

func (e UsageError) Error() string {
	return e.Msg
}
