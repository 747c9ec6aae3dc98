package command

// root.go defines the root command for the talehub CLI.
// set up the global flags here.

import (
	"fmt"
	"os"

	"talehub/cmd/cli/authentication"
	"talehub/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var apiURL string // Global flag for API server URL

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "talehub",
	Short: "talehub - TaleHub Command Line Interface",
	Long: `talehub is a terminal client for the TaleHub storytelling API. With it you can:
- Browse, search and rank the story feed
- Read your notifications
- Watch new stories and notifications arrive in realtime

Use "talehub [command] --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("TALEHUB_API", "http://localhost:8080"), "API server URL")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetAuthenticatedClient returns an HTTP client carrying the stored token.
func GetAuthenticatedClient() (*client.HTTPClient, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		return nil, err
	}
	c := client.NewHTTPClient(apiURL)
	c.SetToken(creds.AccessToken)
	return c, nil
}
