package handlers

import (
	"merquelo/app"
	"merquelo/middleware"

	"github.com/spf13/cobra"
)

// StoreSuggestions prints store names to offer. With --list it offers the
// catalog plus that list's stores, otherwise the catalog, favorites and
// every store ever used.
func StoreSuggestions(a *app.App) middleware.RunE {
	return func(cmd *cobra.Command, args []string) error {
		listID, _ := cmd.Flags().GetInt64("list")
		if listID < 0 {
			return badRequest("invalid list id %d", listID)
		}

		var (
			names []string
			err   error
		)
		if listID > 0 {
			names, err = a.Market.StoreSuggestionsForList(cmd.Context(), listID)
		} else {
			names, err = a.Market.StoreSuggestions(cmd.Context())
		}
		if err != nil {
			return err
		}
		return success(cmd, a, names)
	}
}

func ProductSuggestions(a *app.App) middleware.RunE {
	return func(cmd *cobra.Command, args []string) error {
		names, err := a.Market.ProductSuggestions(cmd.Context())
		if err != nil {
			return err
		}
		return success(cmd, a, names)
	}
}
