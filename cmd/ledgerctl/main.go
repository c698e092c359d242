// Command ledgerctl searches the ledger and exports invoices from the
// command line, using the same configuration as the server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/ledgerview/internal/application"
	"github.com/JonMunkholm/ledgerview/internal/config"
	"github.com/JonMunkholm/ledgerview/internal/core"
	"github.com/JonMunkholm/ledgerview/internal/logging"
)

var (
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "ledgerctl",
	Short:         "Search the ledger and export invoices",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file to load if present")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.AddCommand(searchCmd, exportCmd)
}

// loadApp reads configuration and wires the components for a command.
// Logs go to the command's stderr; stdout carries only command output.
func loadApp(cmd *cobra.Command) (*application.App, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	slog.SetDefault(logging.New(cmd.ErrOrStderr(), logLevel, "text"))

	cfg, err := config.LoadTool()
	if err != nil {
		return nil, err
	}
	return application.Build(cmd.Context(), cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Debug("command failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", core.FormatUserError(err))
		os.Exit(1)
	}
}
