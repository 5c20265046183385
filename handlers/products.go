package handlers

import (
	"merquelo/app"
	"merquelo/middleware"
	"merquelo/models"
	"merquelo/utils"

	"github.com/spf13/cobra"
)

// AddProducts adds name[:qty] products under --store of a list
func AddProducts(a *app.App) middleware.RunE {
	return func(cmd *cobra.Command, args []string) error {
		listID, err := parseListID(a, args[0])
		if err != nil {
			return err
		}
		store, _ := cmd.Flags().GetString("store")

		req := models.AddProductsRequest{ListID: listID, Store: store, Products: args[1:]}
		if err := a.Validator.Validate(&req); err != nil {
			return err
		}

		products := make([]models.ProductQuantity, 0, len(req.Products))
		for _, spec := range req.Products {
			pq, err := utils.ParseProductSpec(spec)
			if err != nil {
				return badRequest("%v", err)
			}
			products = append(products, pq)
		}

		if err := a.Market.AddProductsToList(cmd.Context(), listID, req.Store, products); err != nil {
			return err
		}

		detail, err := a.Market.GetListDetail(cmd.Context(), listID)
		if err != nil {
			return err
		}
		return success(cmd, a, detail)
	}
}

func RemoveProduct(a *app.App) middleware.RunE {
	return func(cmd *cobra.Command, args []string) error {
		listID, err := parseListID(a, args[0])
		if err != nil {
			return err
		}
		store, _ := cmd.Flags().GetString("store")

		req := models.RemoveProductRequest{ListID: listID, Store: store, Product: args[1]}
		if err := a.Validator.Validate(&req); err != nil {
			return err
		}

		if err := a.Market.RemoveProductFromList(cmd.Context(), listID, req.Store, req.Product); err != nil {
			return err
		}

		detail, err := a.Market.GetListDetail(cmd.Context(), listID)
		if err != nil {
			return err
		}
		return success(cmd, a, detail)
	}
}
