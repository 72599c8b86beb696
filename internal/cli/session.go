package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newLoginCmd stores a token issued by the admin backend; obtaining it is out of scope here.
func newLoginCmd(a *app) *cobra.Command {
	var token, user string
	cmd := &cobra.Command{
		Use:   "login --token TOKEN",
		Short: "Store the bearer token sent with every request",
		Long: `Store the bearer token sent with every request, together with the cached profile of
the signed-in user. The token is kept in the configured state store.

Example:
  fdapi login --token eyJhbGciOi... --user '{"name":"Dana","role":"admin"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := parseData(user)
			if err != nil {
				return err
			}
			credentials := a.client.Session().Credentials
			if err := credentials.SignIn(cmd.Context(), token, profile); err != nil {
				return fmt.Errorf("unable to store credentials: %w", err)
			}
			if _, held := credentials.Token(); !held {
				warnLabel.Fprintln(cmd.ErrOrStderr(), "Token is already expired and will not be sent.")
				return nil
			}
			okLabel.Fprintln(cmd.OutOrStdout(), "Signed in.")
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Bearer token")
	cmd.Flags().StringVar(&user, "user", "", "Signed-in user profile as JSON")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token and user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Session().Credentials.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("unable to clear credentials: %w", err)
			}
			okLabel.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the device id and the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := a.client.Session()
			_, held := sc.Credentials.Token()
			status := map[string]any{
				"base_url":  a.client.BaseURL(),
				"device_id": sc.Device.ID(cmd.Context()),
				"signed_in": held,
			}
			if user := sc.Credentials.User(); user != nil {
				status["user"] = user
			}
			content, err := json.MarshalIndent(status, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(content))
			return err
		},
	}
}
