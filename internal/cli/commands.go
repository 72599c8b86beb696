package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RassulYunussov/fdapi"
	"github.com/RassulYunussov/fdapi/config"
	"github.com/RassulYunussov/fdapi/resources"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)
var warnLabel = color.New(color.FgYellow)

// app is the state shared by every command of one invocation.
type app struct {
	configFile string
	baseURL    string
	store      string
	jsonOutput bool
	yamlOutput bool
	verbose    bool

	config     config.Config
	client     fdapi.Client
	api        *resources.API
	closeStore func() error
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := new(app)
	rootCmd := &cobra.Command{
		Use:   "fdapi [command] [flags]",
		Short: "fdapi - command line client for the food-distribution admin API",
		Long: `fdapi calls the food-distribution admin API and prints the normalized result.
Successful calls print the payload as JSON (or YAML). Failed calls print the error message.

Examples:
  # Check the backend
  fdapi health

  # List products in a category
  fdapi products list --filter category=grain

  # Issue any call
  fdapi call PATCH /orders/o-9/status --data '{"status":"shipped"}'`,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closeStore != nil {
				return a.closeStore()
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "API base URL, overrides configuration")
	rootCmd.PersistentFlags().StringVar(&a.store, "store", "", "State store: memory, file or redis")
	rootCmd.PersistentFlags().BoolVarP(&a.jsonOutput, "json", "j", false, "Print errors as JSON")
	rootCmd.PersistentFlags().BoolVarP(&a.yamlOutput, "yaml", "y", false, "Print payloads as YAML")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log every request")

	rootCmd.AddCommand(
		newCallCmd(a),
		newHealthCmd(a),
		newProductsCmd(a),
		newOrdersCmd(a),
		newStoresCmd(a),
		newInventoryCmd(a),
		newSearchCmd(a),
		newReportsCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
	)
	return rootCmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err, jsonFlag(rootCmd))
		os.Exit(1)
	}
}

func jsonFlag(cmd *cobra.Command) bool {
	v, _ := cmd.PersistentFlags().GetBool("json")
	return v
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(a.configFile)
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}
	if a.store != "" {
		cfg.Store = a.store
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.config = cfg

	level := cfg.Level()
	if a.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: color.NoColor}).
		Level(level).With().Timestamp().Logger()

	store, closeStore, err := cfg.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	a.closeStore = closeStore

	stderr := cmd.ErrOrStderr()
	opts := append(cfg.Options(),
		fdapi.WithLogger(logger),
		fdapi.WithStore(store),
		fdapi.WithSignInRedirect(func() {
			warnLabel.Fprintln(stderr, "Session expired. Run \"fdapi login\" to sign in again.")
		}),
	)
	a.client, err = fdapi.Create(cfg.BaseURL, cfg.Timeout, opts...)
	if err != nil {
		return err
	}
	a.api = resources.New(a.client)
	return nil
}

// print writes a payload as indented JSON, or YAML when requested.
func (a *app) print(cmd *cobra.Command, payload fdapi.Payload, err error) error {
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if a.yamlOutput {
		var value any
		if err := payload.Decode(&value); err != nil {
			return err
		}
		content, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		_, err = out.Write(content)
		return err
	}
	content, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(content))
	return err
}

func printError(w io.Writer, err error, asJSON bool) {
	e, normalized := fdapi.AsError(err)
	if asJSON {
		var content []byte
		if normalized {
			content, _ = json.MarshalIndent(e, "", "  ")
		} else {
			content, _ = json.MarshalIndent(map[string]string{"message": err.Error()}, "", "  ")
		}
		fmt.Fprintln(w, string(content))
		return
	}
	if normalized && e.Code != "" {
		errorLabel.Fprintf(w, "Error: %s (%s)\n", e.Message, e.Code)
		return
	}
	errorLabel.Fprintf(w, "Error: %v\n", err)
}

// parsePairs reads key=value flags.
func parsePairs(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		values[key] = value
	}
	return values, nil
}

// parseData validates an inline JSON document given with --data.
func parseData(data string) (json.RawMessage, error) {
	if data == "" {
		return nil, nil
	}
	if !json.Valid([]byte(data)) {
		return nil, errors.New("--data must be a JSON document")
	}
	return json.RawMessage(data), nil
}
