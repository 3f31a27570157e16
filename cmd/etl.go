package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aetrend/aetrend-cli/internal/pipeline"
)

const summaryRound = 10 * time.Millisecond

var (
	etlLimitQuarters int
	etlStrict        bool
)

var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Load FAERS quarterly drops and build the consolidated event set",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("limit-quarters") {
			c.LimitQuarters = etlLimitQuarters
		}
		if cmd.Flags().Changed("strict") {
			c.Strict = etlStrict
		}

		summary, err := pipeline.Run(c)
		if err != nil {
			return err
		}

		for _, q := range summary.Quarters {
			if q.Skipped {
				fmt.Printf("⚠ Skipped %s: %s\n", q.Quarter, q.Reason)
			} else {
				fmt.Printf("✓ %s: %d events\n", q.Quarter, q.Events)
			}
		}
		fmt.Printf("✓ Wrote %d events across %d months to %s (run %s, %s)\n",
			summary.TotalEvents, summary.Months, summary.OutDir,
			summary.RunID, summary.Duration.Round(summaryRound))
		return nil
	},
}

func init() {
	etlCmd.Flags().IntVar(&etlLimitQuarters, "limit-quarters", 0, "process only the N most recent quarters (0 = all)")
	etlCmd.Flags().BoolVar(&etlStrict, "strict", false, "fail the run on the first broken quarter instead of skipping it")
	rootCmd.AddCommand(etlCmd)
}
