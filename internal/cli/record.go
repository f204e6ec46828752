package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/netnext/internal/observability"
	"github.com/valter-silva-au/netnext/pkg/models"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Fetch today's net-next state and store it",
	Long: `Fetch the net-next status page and store the advertised state under
today's date, replacing any earlier entry for the same day.

When the state differs from the previous recorded day a status.changed event
is logged and, if notifications are enabled, a Slack message is sent.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("tracker not initialized")
		}
		today, err := resolveToday()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		res, err := Tracker.Record(ctx, today)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		obs := res.Observation
		if res.Changed {
			fmt.Fprintf(out, "%s: %s (changed from %s)\n", obs.Date.Format(models.DateLayout), obs.State, res.Previous.State)
		} else {
			fmt.Fprintf(out, "%s: %s\n", obs.Date.Format(models.DateLayout), obs.State)
		}
		if !obs.State.IsKnown() {
			slog.Warn("status page did not advertise a known state", "state", obs.State)
		}

		if Mirror != nil {
			if err := Mirror.Mirror(ctx, obs); err != nil {
				slog.Warn("mirroring observation to influxdb failed", "error", err)
			}
		}
		if res.Changed && Notifier != nil {
			alert := observability.StateChangeAlert(*res.Previous, obs)
			if err := Notifier.Notify(ctx, []observability.Alert{alert}); err != nil {
				slog.Warn("sending state change notification failed", "error", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recordCmd)
}
