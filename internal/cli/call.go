package cli

import (
	"net/url"
	"strings"

	"github.com/RassulYunussov/fdapi"
	"github.com/spf13/cobra"
)

func newCallCmd(a *app) *cobra.Command {
	var data string
	var query, headers []string
	cmd := &cobra.Command{
		Use:   "call METHOD PATH [flags]",
		Short: "Issue a request against any API path",
		Long: `Issue a request against any API path and print the normalized payload.

Examples:
  fdapi call GET /products --query page=2
  fdapi call POST /stores --data '{"code":"S1","name":"Depot"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := parseData(data)
			if err != nil {
				return err
			}
			params, err := parsePairs(query)
			if err != nil {
				return err
			}
			headerValues, err := parsePairs(headers)
			if err != nil {
				return err
			}
			opts := make([]fdapi.CallOption, 0, len(params)+len(headerValues)+1)
			values := url.Values{}
			for k, v := range params {
				values.Set(k, v)
			}
			opts = append(opts, fdapi.WithQuery(values))
			for k, v := range headerValues {
				opts = append(opts, fdapi.WithHeader(k, v))
			}
			if body != nil {
				opts = append(opts, fdapi.WithRawBody(body))
			}
			payload, err := a.client.Call(cmd.Context(), strings.ToUpper(args[0]), args[1], opts...)
			return a.print(cmd, payload, err)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "Query parameter as key=value, repeatable")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "Extra header as key=value, repeatable")
	return cmd
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Print the backend health document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := a.api.Health.Check(cmd.Context())
			if err == nil && payload.Get("status").String() != "" && payload.Get("status").String() != "healthy" {
				warnLabel.Fprintf(cmd.ErrOrStderr(), "Backend reports status %q\n", payload.Get("status").String())
			}
			return a.print(cmd, payload, err)
		},
	}
}

