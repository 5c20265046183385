package setup

import (
	"merquelo/app"
	"merquelo/config"
	"merquelo/handlers"
	"merquelo/middleware"
	"strings"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Storage is opened lazily in
// PersistentPreRunE, after --db has been parsed; callers release it with
// Shutdown once the command returns.
func NewRootCmd(cfg *config.Config, application *app.App) *cobra.Command {
	root := &cobra.Command{
		Use:           "merquelo",
		Short:         "Shopping lists grouped by store",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Create a list with two stores
  merquelo lists create --name "mercado semanal" --store "la vaquita=leche:2,huevos" --store "D1=pan"

  # Add products to a store of list 1
  merquelo products add 1 --store carulla queso vino:2

  # Follow list changes
  merquelo lists watch
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return InitApp(cfg, application)
		},
	}

	root.PersistentFlags().StringVar(&application.DBPath, "db", application.DBPath, "Path to the SQLite database (overrides DB_PATH)")
	root.PersistentFlags().BoolVar(&application.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	logged := middleware.StructuredLogger(application.Logger)
	run := func(h func(*app.App) middleware.RunE) func(*cobra.Command, []string) error {
		return logged(h(application))
	}

	// Lists
	lists := &cobra.Command{Use: "lists", Short: "List commands"}

	create := &cobra.Command{Use: "create", Short: "Create a list", Args: cobra.NoArgs, RunE: run(handlers.CreateList)}
	create.Flags().String("name", "", "List name")
	create.Flags().StringArray("store", nil, `Store and products as "store=product[:qty],product[:qty]" (repeatable)`)
	_ = create.MarkFlagRequired("name")

	watch := &cobra.Command{Use: "watch", Short: "Print the lists every time they change", Args: cobra.NoArgs, RunE: run(handlers.WatchLists)}
	watch.Flags().Int("count", 0, "Stop after this many snapshots (0 runs until interrupted)")

	lists.AddCommand(
		create,
		&cobra.Command{Use: "ls", Short: "Show all lists, newest first", Args: cobra.NoArgs, RunE: run(handlers.GetLists)},
		&cobra.Command{Use: "show <list-id>", Short: "Show a list grouped by store", Args: cobra.ExactArgs(1), RunE: run(handlers.GetListDetail)},
		&cobra.Command{Use: "rm <list-id>", Short: "Delete a list with its stores and products", Args: cobra.ExactArgs(1), RunE: run(handlers.DeleteList)},
		watch,
	)

	// Products
	products := &cobra.Command{Use: "products", Short: "Product commands"}

	add := &cobra.Command{Use: "add <list-id> <product[:qty]>...", Short: "Add products to a store of a list", Args: cobra.MinimumNArgs(2), RunE: run(handlers.AddProducts)}
	add.Flags().String("store", "", "Store name")
	_ = add.MarkFlagRequired("store")

	rm := &cobra.Command{Use: "rm <list-id> <product>", Short: "Remove a product from a store of a list", Args: cobra.ExactArgs(2), RunE: run(handlers.RemoveProduct)}
	rm.Flags().String("store", "", "Store name")
	_ = rm.MarkFlagRequired("store")

	products.AddCommand(add, rm)

	// Stores
	stores := &cobra.Command{Use: "stores", Short: "Store commands"}
	stores.AddCommand(
		&cobra.Command{Use: "ls <list-id>", Short: "Show the stores of a list", Args: cobra.ExactArgs(1), RunE: run(handlers.GetStores)},
		&cobra.Command{Use: "rm <list-id> <store>", Short: "Remove a store and its products from a list", Args: cobra.ExactArgs(2), RunE: run(handlers.RemoveStore)},
	)

	// Favorites
	favorites := &cobra.Command{Use: "favorites", Short: "Favorite store commands"}
	favorites.AddCommand(
		&cobra.Command{Use: "add <name>", Short: "Save a favorite store", Args: cobra.ExactArgs(1), RunE: run(handlers.AddFavorite)},
		&cobra.Command{Use: "rm <name>", Short: "Remove a favorite store", Args: cobra.ExactArgs(1), RunE: run(handlers.RemoveFavorite)},
		&cobra.Command{Use: "ls", Short: "Show favorite stores", Args: cobra.NoArgs, RunE: run(handlers.GetFavorites)},
	)

	// Suggestions
	suggest := &cobra.Command{Use: "suggest", Short: "Name suggestions"}
	suggestStores := &cobra.Command{Use: "stores", Short: "Suggest store names", Args: cobra.NoArgs, RunE: run(handlers.StoreSuggestions)}
	suggestStores.Flags().Int64("list", 0, "Suggest for this list only")
	suggest.AddCommand(
		suggestStores,
		&cobra.Command{Use: "products", Short: "Suggest product names", Args: cobra.NoArgs, RunE: run(handlers.ProductSuggestions)},
	)

	root.AddCommand(
		lists,
		products,
		stores,
		favorites,
		suggest,
		&cobra.Command{Use: "version", Short: "Show build and schema version", Args: cobra.NoArgs, RunE: run(handlers.ShowVersion)},
	)

	return root
}
