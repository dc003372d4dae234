package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	baseURL  string
	apiKey   string
	userName string
)

var rootCmd = &cobra.Command{
	Use:   "pib",
	Short: "pibridge CLI - Manage files on the remote host from the command line",
	Long: `pibridge CLI (pib) is a command-line tool for the pibridge server.

It lists, reads, writes, renames, and deletes files in a per-user workspace on
the remote host, and moves files back and forth with progress reporting.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", getEnvOrDefault("PIBRIDGE_API_URL", "http://localhost:8080"), "pibridge API base URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("PIBRIDGE_API_KEY"), "pibridge API key")
	rootCmd.PersistentFlags().StringVarP(&userName, "user", "u", getEnvOrDefault("PIBRIDGE_USER", os.Getenv("USER")), "workspace user name")
}

func getEnvOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// ensureAPIKey prompts for the key on a TTY rather than failing outright.
func ensureAPIKey() error {
	if apiKey != "" {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("API key is required. Set PIBRIDGE_API_KEY or use --api-key")
	}
	fmt.Fprint(os.Stderr, "API key: ")
	key, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	apiKey = string(key)
	if apiKey == "" {
		return fmt.Errorf("API key is required. Set PIBRIDGE_API_KEY or use --api-key")
	}
	return nil
}

func checkUser() error {
	if userName == "" {
		return fmt.Errorf("user name is required. Set PIBRIDGE_USER or use --user")
	}
	return nil
}
