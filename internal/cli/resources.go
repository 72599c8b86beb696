package cli

import (
	"time"

	"github.com/RassulYunussov/fdapi/resources"
	"github.com/spf13/cobra"
)

func listFlags(cmd *cobra.Command, params *resources.ListParams, filters *[]string) {
	cmd.Flags().IntVar(&params.Page, "page", 0, "Page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "Page size")
	cmd.Flags().StringVar(&params.Sort, "sort", "", "Sort expression")
	cmd.Flags().StringArrayVar(filters, "filter", nil, "Filter as key=value, repeatable")
}

func newProductsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Manage the product catalog"}
	cmd.AddCommand(crudCmds(a, "product", func() crud { return a.api.Products })...)
	return cmd
}

func newStoresCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "stores", Short: "Manage stores"}
	cmd.AddCommand(crudCmds(a, "store", func() crud { return a.api.Stores })...)
	return cmd
}

func newOrdersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "orders", Short: "Manage orders"}
	var params resources.ListParams
	var filters []string
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if params.Filters, err = parsePairs(filters); err != nil {
				return err
			}
			payload, err := a.api.Orders.List(cmd.Context(), params)
			return a.print(cmd, payload, err)
		},
	}
	listFlags(list, &params, &filters)

	var data string
	create := &cobra.Command{
		Use:   "create --data JSON",
		Short: "Create an order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := parseData(data)
			if err != nil {
				return err
			}
			payload, err := a.api.Orders.Create(cmd.Context(), body)
			return a.print(cmd, payload, err)
		},
	}
	create.Flags().StringVarP(&data, "data", "d", "", "Order as JSON")
	_ = create.MarkFlagRequired("data")

	var note string
	status := &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Move an order to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := a.api.Orders.UpdateStatus(cmd.Context(), args[0], args[1], note)
			return a.print(cmd, payload, err)
		},
	}
	status.Flags().StringVar(&note, "note", "", "Note recorded with the change")

	var reason string
	cancel := &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := a.api.Orders.Cancel(cmd.Context(), args[0], reason)
			return a.print(cmd, payload, err)
		},
	}
	cancel.Flags().StringVar(&reason, "reason", "", "Cancellation reason")

	cmd.AddCommand(list, getCmd(a, "order", func() getter { return a.api.Orders }), create, status, cancel)
	return cmd
}

func newInventoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "inventory", Short: "Inspect and adjust stock"}
	var params resources.ListParams
	var filters []string
	list := &cobra.Command{
		Use:   "list",
		Short: "List stock levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if params.Filters, err = parsePairs(filters); err != nil {
				return err
			}
			payload, err := a.api.Inventory.List(cmd.Context(), params)
			return a.print(cmd, payload, err)
		},
	}
	listFlags(list, &params, &filters)

	product := &cobra.Command{
		Use:   "product PRODUCT_ID",
		Short: "Show stock of one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := a.api.Inventory.ForProduct(cmd.Context(), args[0])
			return a.print(cmd, payload, err)
		},
	}

	var adjustment resources.Adjustment
	adjust := &cobra.Command{
		Use:   "adjust PRODUCT_ID QUANTITY",
		Short: "Adjust stock by a signed quantity",
		Example: `  fdapi inventory adjust p-17 -- -4 --reason spoilage
  fdapi inventory adjust p-17 25 --store s-2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			adjustment.ProductID, adjustment.Quantity = args[0], quantity
			payload, err := a.api.Inventory.Adjust(cmd.Context(), adjustment)
			return a.print(cmd, payload, err)
		},
	}
	adjust.Flags().StringVar(&adjustment.StoreID, "store", "", "Store the stock belongs to")
	adjust.Flags().StringVar(&adjustment.Reason, "reason", "", "Reason for the adjustment")

	cmd.AddCommand(list, product, adjust)
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var kind string
	var params resources.ListParams
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search products, orders and stores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := a.api.Search.Query(cmd.Context(), args[0], kind, params)
			return a.print(cmd, payload, err)
		},
	}
	cmd.Flags().StringVar(&kind, "type", "", "Restrict to one resource type")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "Maximum results")
	return cmd
}

func newReportsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "reports", Short: "Fetch reports"}
	var from, to string
	sales := &cobra.Command{
		Use:   "sales",
		Short: "Sales report for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var period resources.Period
			var err error
			if period.From, err = parseDate(from); err != nil {
				return err
			}
			if period.To, err = parseDate(to); err != nil {
				return err
			}
			payload, err := a.api.Reports.Sales(cmd.Context(), period)
			return a.print(cmd, payload, err)
		},
	}
	sales.Flags().StringVar(&from, "from", "", "First day, YYYY-MM-DD")
	sales.Flags().StringVar(&to, "to", "", "Last day, YYYY-MM-DD")

	inventory := &cobra.Command{
		Use:   "inventory",
		Short: "Inventory report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := a.api.Reports.Inventory(cmd.Context())
			return a.print(cmd, payload, err)
		},
	}
	dashboard := &cobra.Command{
		Use:   "dashboard",
		Short: "Dashboard summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := a.api.Reports.Dashboard(cmd.Context())
			return a.print(cmd, payload, err)
		},
	}
	cmd.AddCommand(sales, inventory, dashboard)
	return cmd
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, value)
}
