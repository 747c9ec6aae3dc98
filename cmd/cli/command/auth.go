package command

import (
	"fmt"

	"talehub/cmd/cli/authentication"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// auth.go handles the token commands. Tokens are issued by the identity
// service; the CLI only stores one.

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an access token for later commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("token")
		if err := authentication.StoreTokens(&authentication.StoredCredentials{
			AccessToken: token,
			APIURL:      apiURL,
		}); err != nil {
			return fmt.Errorf("could not store token: %w", err)
		}
		color.Green("✓ Token saved to the system keyring.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authentication.DeleteTokens(); err != nil {
			return fmt.Errorf("could not remove token: %w", err)
		}
		color.Green("✓ Successfully logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("token", "t", "", "JWT access token")
	_ = loginCmd.MarkFlagRequired("token")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
