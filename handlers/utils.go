package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"merquelo/app"
	"merquelo/middleware"
	"merquelo/models"

	"github.com/spf13/cobra"
)

// envelope is the shape of every JSON document written to stdout
type envelope struct {
	Data any `json:"data"`
}

func success(cmd *cobra.Command, a *app.App, data any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if a.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(envelope{Data: data})
}

func badRequest(format string, args ...any) error {
	return middleware.UsageError{Msg: fmt.Sprintf(format, args...)}
}

// parseListID parses and validates a list id argument
func parseListID(a *app.App, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, badRequest("invalid list id %q", raw)
	}

	if err := a.Validator.Validate(&models.ListRefRequest{ListID: id}); err != nil {
		return 0, err
	}
	return id, nil
}
