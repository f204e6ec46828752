package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/netnext/internal/core"
	"github.com/valter-silva-au/netnext/pkg/models"
)

var (
	historySince       string
	historyJSON        bool
	historyTransitions bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded daily states",
	Long: `List the recorded daily net-next states in date order.

With --transitions only the days on which the state changed are shown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("tracker not initialized")
		}

		var since time.Time
		if historySince != "" {
			d, err := models.ParseDate(historySince)
			if err != nil {
				return fmt.Errorf("parsing --since: %w", err)
			}
			since = d
		}

		var obs []models.Observation
		for _, o := range Tracker.History() {
			if !o.Date.Before(since) {
				obs = append(obs, o)
			}
		}
		if historyTransitions {
			events := core.CompactTimeline(obs)
			obs = make([]models.Observation, len(events))
			for i, e := range events {
				obs[i] = models.Observation{Date: e.Date, State: e.State}
			}
		}

		out := cmd.OutOrStdout()
		if historyJSON {
			data, err := json.MarshalIndent(obs, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting history as JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if len(obs) == 0 {
			fmt.Fprintln(out, "No observations recorded.")
			return nil
		}
		for _, o := range obs {
			fmt.Fprintf(out, "%s  %s\n", o.Date.Format(models.DateLayout), styleForState(o.State).Render(string(o.State)))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historySince, "since", "", "Only show observations on or after this date (YYYY-MM-DD)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output observations as JSON")
	historyCmd.Flags().BoolVar(&historyTransitions, "transitions", false, "Only show days on which the state changed")
	_ = historyCmd.RegisterFlagCompletionFunc("since", completeRecordedDates)
	rootCmd.AddCommand(historyCmd)
}
