package handlers

import (
	"merquelo/app"
	"merquelo/database"
	"merquelo/middleware"

	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X merquelo/handlers.Version=..."
var Version = "dev"

func ShowVersion(a *app.App) middleware.RunE {
	return func(cmd *cobra.Command, args []string) error {
		schema, err := a.DB.SchemaVersion()
		if err != nil {
			return err
		}
		return success(cmd, a, map[string]any{
			"version":          Version,
			"schema_version":   schema,
			"supported_schema": database.CurrentSchemaVersion,
		})
	}
}
