package handlers

import (
	"strings"

	"merquelo/app"
	"merquelo/middleware"

	"github.com/spf13/cobra"
)

func GetStores(a *app.App) middleware.RunE {
	return func(cmd *cobra.Command, args []string) error {
		listID, err := parseListID(a, args[0])
		if err != nil {
			return err
		}

		stores, err := a.Market.GetStoresForList(cmd.Context(), listID)
		if err != nil {
			return err
		}
		return success(cmd, a, stores)
	}
}

// RemoveStore deletes a store and its products from a list
func RemoveStore(a *app.App) middleware.RunE {
	return func(cmd *cobra.Command, args []string) error {
		listID, err := parseListID(a, args[0])
		if err != nil {
			return err
		}
		if strings.TrimSpace(args[1]) == "" {
			return badRequest("store must not be blank")
		}

		if err := a.Market.RemoveStoreFromList(cmd.Context(), listID, args[1]); err != nil {
			return err
		}

		names, err := a.Market.StoreNamesForList(cmd.Context(), listID)
		if err != nil {
			return err
		}
		return success(cmd, a, names)
	}
}
