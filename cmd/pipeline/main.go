package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:           "nbu-pipeline",
		Short:         "Load NBU exchange rates into ClickHouse",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Load the rates for one logical date",
		Args:  cobra.NoArgs,
		RunE:  runOnce,
	}

	backfillCmd = &cobra.Command{
		Use:   "backfill",
		Short: "Load every logical date in an inclusive range",
		Args:  cobra.NoArgs,
		RunE:  backfill,
	}

	scheduleCmd = &cobra.Command{
		Use:   "schedule",
		Short: "Run the daily load until interrupted",
		Args:  cobra.NoArgs,
		RunE:  schedule,
	}

	runDate      string
	backfillFrom string
	backfillTo   string
	workers      int
)

func main() {
	runCmd.Flags().StringVar(&runDate, "date", "", "logical date YYYY-MM-DD (default: today in the schedule timezone)")

	backfillCmd.Flags().StringVar(&backfillFrom, "from", "", "first logical date YYYY-MM-DD")
	backfillCmd.Flags().StringVar(&backfillTo, "to", "", "last logical date YYYY-MM-DD")
	backfillCmd.Flags().IntVar(&workers, "workers", 0, "dates loaded concurrently (default: BACKFILL_WORKERS)")
	_ = backfillCmd.MarkFlagRequired("from")
	_ = backfillCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(runCmd, backfillCmd, scheduleCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
