package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gotrs-io/console-e2e/tests/e2e/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var envFileFlag string

var rootCmd = &cobra.Command{
	Use:   "console-e2e",
	Short: "Test environment tooling for the console end-to-end suite",
	Long: `console-e2e prepares and cleans up the environment the browser suite
runs against.

Run "bootstrap" before the suite to make sure the well-known accounts exist,
and "sweep" afterwards to remove entities the scenarios created.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", ".env", "Dotenv file consulted for unset variables")

	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() *config.TestConfig {
	return config.Load(envFileFlag)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.HiRedString("Error:"), err.Error())
		os.Exit(1)
	}
}
