package handlers

import (
	"merquelo/app"
	"merquelo/middleware"
	"merquelo/models"

	"github.com/spf13/cobra"
)

func AddFavorite(a *app.App) middleware.RunE {
	return func(cmd *cobra.Command, args []string) error {
		req := models.FavoriteRequest{Name: args[0]}
		if err := a.Validator.Validate(&req); err != nil {
			return err
		}

		if err := a.Market.AddFavoriteStore(cmd.Context(), req.Name); err != nil {
			return err
		}
		return listFavorites(cmd, a)
	}
}

func RemoveFavorite(a *app.App) middleware.RunE {
	return func(cmd *cobra.Command, args []string) error {
		req := models.FavoriteRequest{Name: args[0]}
		if err := a.Validator.Validate(&req); err != nil {
			return err
		}

		if err := a.Market.RemoveFavoriteStore(cmd.Context(), req.Name); err != nil {
			return err
		}
		return listFavorites(cmd, a)
	}
}

func GetFavorites(a *app.App) middleware.RunE {
	return func(cmd *cobra.Command, args []string) error {
		return listFavorites(cmd, a)
	}
}

func listFavorites(cmd *cobra.Command, a *app.App) error {
	names, err := a.Market.FavoriteStores(cmd.Context())
	if err != nil {
		return err
	}
	return success(cmd, a, names)
}
