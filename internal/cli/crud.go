package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/RassulYunussov/fdapi"
	"github.com/RassulYunussov/fdapi/resources"
	"github.com/spf13/cobra"
)

type getter interface {
	Get(ctx context.Context, id string) (fdapi.Payload, error)
}

// crud is the shape shared by products and stores.
type crud interface {
	getter
	List(ctx context.Context, params resources.ListParams) (fdapi.Payload, error)
	Create(ctx context.Context, v any) (fdapi.Payload, error)
	Update(ctx context.Context, id string, v any) (fdapi.Payload, error)
	Delete(ctx context.Context, id string) (fdapi.Payload, error)
}

func getCmd(a *app, noun string, resource func() getter) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: fmt.Sprintf("Show one %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := resource().Get(cmd.Context(), args[0])
			return a.print(cmd, payload, err)
		},
	}
}

// crudCmds resolves the resource lazily; the API exists only once the root pre-run has run.
func crudCmds(a *app, noun string, resource func() crud) []*cobra.Command {
	var params resources.ListParams
	var filters []string
	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %ss", noun),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if params.Filters, err = parsePairs(filters); err != nil {
				return err
			}
			payload, err := resource().List(cmd.Context(), params)
			return a.print(cmd, payload, err)
		},
	}
	listFlags(list, &params, &filters)

	var createData, updateData string
	create := &cobra.Command{
		Use:   "create --data JSON",
		Short: fmt.Sprintf("Create a %s", noun),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := parseData(createData)
			if err != nil {
				return err
			}
			payload, err := resource().Create(cmd.Context(), body)
			return a.print(cmd, payload, err)
		},
	}
	create.Flags().StringVarP(&createData, "data", "d", "", fmt.Sprintf("The %s as JSON", noun))
	_ = create.MarkFlagRequired("data")

	update := &cobra.Command{
		Use:   "update ID --data JSON",
		Short: fmt.Sprintf("Replace a %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := parseData(updateData)
			if err != nil {
				return err
			}
			payload, err := resource().Update(cmd.Context(), args[0], body)
			return a.print(cmd, payload, err)
		},
	}
	update.Flags().StringVarP(&updateData, "data", "d", "", fmt.Sprintf("The %s as JSON", noun))
	_ = update.MarkFlagRequired("data")

	remove := &cobra.Command{
		Use:   "delete ID",
		Short: fmt.Sprintf("Delete a %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := resource().Delete(cmd.Context(), args[0])
			return a.print(cmd, payload, err)
		},
	}

	return []*cobra.Command{list, getCmd(a, noun, func() getter { return resource() }), create, update, remove}
}

func parseQuantity(value string) (int, error) {
	quantity, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("quantity must be an integer, got %q", value)
	}
	if quantity == 0 {
		return 0, fmt.Errorf("quantity must not be zero")
	}
	return quantity, nil
}
