package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gotrs-io/console-e2e/tests/e2e/bootstrap"
	"github.com/gotrs-io/console-e2e/tests/e2e/config"
)

var errBootstrapFailed = errors.New("some accounts could not be provisioned")

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the admin, manager and agent test accounts",
	Long: `Bootstrap registers every account of the roster against the system under
test. Accounts that already exist count as success. Failures are reported but
only change the exit status with --strict.`,
	RunE: runBootstrap,
}

var (
	strictFlag bool
	waitFlag   time.Duration
)

func init() {
	bootstrapCmd.Flags().BoolVar(&strictFlag, "strict", false, "Exit non-zero when any account fails")
	bootstrapCmd.Flags().DurationVar(&waitFlag, "wait", 0, "Wait up to this long for the server to become reachable")
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx := cmd.Context()

	if waitFlag > 0 {
		if err := config.WaitReachable(ctx, cfg.BaseURL, waitFlag); err != nil {
			return err
		}
	}

	b, err := bootstrap.FromConfig(cfg)
	if err != nil {
		return err
	}
	summary, err := b.Run(ctx)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), summary)

	if strictFlag && !summary.OK() {
		return fmt.Errorf("%w: %d of %d", errBootstrapFailed, len(summary.Failed()), len(summary.Results))
	}
	return nil
}

func printSummary(w io.Writer, s bootstrap.Summary) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgHiRed).SprintFunc()

	for _, r := range s.Results {
		switch r.Outcome {
		case bootstrap.Created:
			fmt.Fprintf(w, "%s %s\n", green("created"), r.Account.Email)
		case bootstrap.AlreadyExists:
			fmt.Fprintf(w, "%s  %s\n", yellow("exists"), r.Account.Email)
		default:
			fmt.Fprintf(w, "%s  %s: %v\n", red("failed"), r.Account.Email, r.Err)
		}
	}
	fmt.Fprintln(w, s.String())
}
