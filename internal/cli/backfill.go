package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/netnext/internal/core"
	"github.com/valter-silva-au/netnext/pkg/models"
)

var backfillStart string

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Generate synthetic history before the first recorded day",
	Long: `Store synthetic observations from --start up to the first recorded day
(or today when nothing is recorded yet). The generated history repeats a
65-day period: 51 days Open followed by 14 days Closed.

Useful for trying out forecasts before enough real cycles were recorded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("tracker not initialized")
		}
		start, err := models.ParseDate(backfillStart)
		if err != nil {
			return fmt.Errorf("parsing --start: %w", err)
		}
		today, err := resolveToday()
		if err != nil {
			return err
		}

		n, err := Tracker.Backfill(start, today)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to backfill.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backfilled %d days starting %s.\n", n, start.Format(models.DateLayout))
		return nil
	},
}

func init() {
	backfillCmd.Flags().StringVar(&backfillStart, "start", core.DefaultBackfillStart.Format(models.DateLayout), "First day of synthetic history (YYYY-MM-DD)")
	_ = backfillCmd.RegisterFlagCompletionFunc("start", completeRecordedDates)
	rootCmd.AddCommand(backfillCmd)
}
