package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gotrs-io/console-e2e/tests/e2e/config"
	"github.com/gotrs-io/console-e2e/tests/e2e/fixtures"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved test configuration",
	Run: func(cmd *cobra.Command, args []string) {
		printConfig(cmd.OutOrStdout(), loadConfig())
	},
}

func printConfig(out io.Writer, cfg *config.TestConfig) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "base url\t%s\n", cfg.BaseURL)
	fmt.Fprintf(w, "timeout\t%s\n", cfg.Timeout)
	fmt.Fprintf(w, "expect timeout\t%s\n", cfg.ExpectTimeout)
	fmt.Fprintf(w, "headless\t%t\n", cfg.Headless)
	fmt.Fprintf(w, "slow mo\t%dms\n", cfg.SlowMo)
	fmt.Fprintf(w, "screenshots\t%t\n", cfg.Screenshots)
	fmt.Fprintf(w, "videos\t%t\n", cfg.Videos)
	for _, role := range fixtures.Roles() {
		creds, err := cfg.Credentials(role)
		if err != nil {
			fmt.Fprintf(w, "%s\t(not configured)\n", role)
			continue
		}
		fmt.Fprintf(w, "%s\t%s / %s\n", role, creds.Email, config.MaskedPassword(creds.Password))
	}
	if cfg.AccountsFile != "" {
		fmt.Fprintf(w, "accounts file\t%s\n", cfg.AccountsFile)
	}
	fmt.Fprintf(w, "bootstrap retries\t%d\n", cfg.BootstrapRetries)
	fmt.Fprintf(w, "sweep concurrency\t%d\n", cfg.SweepConcurrency)
	fmt.Fprintf(w, "sweep after suite\t%t\n", cfg.SweepAfter)
}
