package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gotrs-io/console-e2e/tests/e2e/sweep"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete API keys, canned responses and custom actions created by the suite",
	Long: `Sweep logs in as the configured admin and deletes every entity whose
name carries the fixture marker. Anything else is left alone. With
--older-than, names stamped within that window are kept too, so a suite that
is still running keeps its data.`,
	RunE: runSweep,
}

var (
	dryRunFlag    bool
	olderThanFlag time.Duration
)

func init() {
	sweepCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "List matching entities without deleting them")
	sweepCmd.Flags().DurationVar(&olderThanFlag, "older-than", 0, "Only delete entities stamped at least this long ago")
}

func runSweep(cmd *cobra.Command, args []string) error {
	opts := sweep.Options{DryRun: dryRunFlag}
	if olderThanFlag > 0 {
		opts.Before = time.Now().Add(-olderThanFlag)
	}
	s, err := sweep.FromConfig(loadConfig(), opts)
	if err != nil {
		return err
	}
	report, err := s.Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), report.String())
	return report.Err()
}
