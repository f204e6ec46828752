package cli

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/netnext/internal/observability"
)

var alertsNotify bool

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show active alerts",
	Long: `Evaluate alert conditions against the recorded history and the forecast.

  stale_data           nothing recorded for more than notifications.stale_days
  window_overdue       net-next is still open past the average open span
  window_opening_soon  net-next is closed and expected to reopen within 3 days

With --notify the alerts are also sent to the configured Slack webhook.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if AlertEngine == nil {
			return fmt.Errorf("alert engine not initialized")
		}
		today, err := resolveToday()
		if err != nil {
			return err
		}

		alerts := evaluateAlerts(cmd.Context(), today)

		out := cmd.OutOrStdout()
		if len(alerts) == 0 {
			fmt.Fprintln(out, "No active alerts.")
		} else {
			fmt.Fprintf(out, "%d active alert(s):\n\n", len(alerts))
			for _, alert := range alerts {
				severity := strings.ToUpper(string(alert.Severity))
				fmt.Fprintf(out, "  [%s] %s\n", severity, alert.Message)
				fmt.Fprintf(out, "         %s\n\n", alert.Condition)
			}
		}

		if alertsNotify {
			if Notifier == nil {
				return fmt.Errorf("notifications are not configured (set notifications.enabled and notifications.slack.webhook_url)")
			}
			if err := Notifier.Notify(cmd.Context(), alerts); err != nil {
				return fmt.Errorf("sending alerts: %w", err)
			}
		}
		return nil
	},
}

// evaluateAlerts feeds the latest observation and forecast to AlertEngine and
// returns the alerts ordered by severity.
func evaluateAlerts(ctx context.Context, today time.Time) []observability.Alert {
	in := observability.AlertInput{Today: today}
	if Tracker != nil {
		if latest, ok := Tracker.Latest(); ok {
			in.Latest = &latest
		}
		f, err := Tracker.Forecast(ctx, today, DefaultHorizon)
		if err != nil {
			slog.Debug("forecast for alerts incomplete", "error", err)
		}
		in.Forecast = f
	}

	alerts := AlertEngine.Evaluate(in)
	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank(string(alerts[i].Severity)) < severityRank(string(alerts[j].Severity))
	})
	return alerts
}

func severityRank(s string) int {
	switch s {
	case "high":
		return 0
	case "medium":
		return 1
	case "low":
		return 2
	default:
		return 3
	}
}

func init() {
	alertsCmd.Flags().BoolVar(&alertsNotify, "notify", false, "Send the alerts to the configured Slack webhook")
	rootCmd.AddCommand(alertsCmd)
}
