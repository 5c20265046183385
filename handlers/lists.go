package handlers

import (
	"merquelo/app"
	"merquelo/middleware"
	"merquelo/models"
	"merquelo/utils"

	"github.com/spf13/cobra"
)

// CreateList creates a list from --name and one --store spec per store
func CreateList(a *app.App) middleware.RunE {
	return func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		specs, _ := cmd.Flags().GetStringArray("store")

		req := models.CreateListRequest{Name: name, Stores: specs}
		if err := a.Validator.Validate(&req); err != nil {
			return err
		}

		stores := make([]models.StoreProducts, 0, len(req.Stores))
		for _, spec := range req.Stores {
			sp, err := utils.ParseStoreSpec(spec)
			if err != nil {
				return badRequest("%v", err)
			}
			stores = append(stores, sp)
		}

		id, err := a.Market.CreateListWithStoresAndItems(cmd.Context(), utils.TitleCase(req.Name), stores)
		if err != nil {
			return err
		}

		return success(cmd, a, map[string]any{"id": id})
	}
}

// GetLists prints every list, newest first
func GetLists(a *app.App) middleware.RunE {
	return func(cmd *cobra.Command, args []string) error {
		lists, err := a.Market.GetLists(cmd.Context())
		if err != nil {
			return err
		}
		return success(cmd, a, lists)
	}
}

// GetListDetail prints a list grouped by store
func GetListDetail(a *app.App) middleware.RunE {
	return func(cmd *cobra.Command, args []string) error {
		listID, err := parseListID(a, args[0])
		if err != nil {
			return err
		}

		detail, err := a.Market.GetListDetail(cmd.Context(), listID)
		if err != nil {
			return err
		}
		return success(cmd, a, detail)
	}
}

func DeleteList(a *app.App) middleware.RunE {
	return func(cmd *cobra.Command, args []string) error {
		listID, err := parseListID(a, args[0])
		if err != nil {
			return err
		}

		if err := a.Market.DeleteList(cmd.Context(), listID); err != nil {
			return err
		}
		return success(cmd, a, map[string]any{"id": listID, "deleted": true})
	}
}

// WatchLists prints the list collection every time it changes. It stops
// after --count snapshots, or when the command context is cancelled if
// --count is zero.
func WatchLists(a *app.App) middleware.RunE {
	return func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		if count < 0 {
			return badRequest("count must not be negative")
		}

		ctx := cmd.Context()
		ch, _, err := a.Market.SubscribeLists(ctx)
		if err != nil {
			return err
		}

		for seen := 0; count == 0 || seen < count; seen++ {
			select {
			case lists, ok := <-ch:
				if !ok {
					return nil
				}
				if err := success(cmd, a, lists); err != nil {
					return err
				}
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	}
}
