package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/netnext/internal/observability"
)

var (
	metricsJSON     bool
	metricsSince    string
	metricsTextfile string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display recording and forecast metrics",
	Long: `Display counters derived from the event log: observations recorded,
state changes, fetch failures, forecasts computed and skipped release tags.

With --textfile (or metrics.textfile in the config) the current forecast is
also written as Prometheus gauges for node_exporter's textfile collector.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized (observability may be disabled)")
		}

		sinceTime, err := parseSinceDuration(metricsSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		metrics, err := MetricsCalc.Calculate(sinceTime)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		if path := textfilePath(); path != "" {
			if err := exportTextfile(cmd, path); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if metricsJSON {
			data, err := json.MarshalIndent(metrics, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting metrics as JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		printMetrics(out, sinceTime, metrics)
		return nil
	},
}

func printMetrics(out io.Writer, since time.Time, m *observability.Metrics) {
	fmt.Fprintf(out, "Metrics (since %s)\n\n", since.Format("2006-01-02"))
	fmt.Fprintf(out, "  %-24s %d\n", "Events recorded:", m.EventCount)
	fmt.Fprintf(out, "  %-24s %d\n", "Runs:", m.Runs)
	fmt.Fprintf(out, "  %-24s %d\n", "Observations:", m.ObservationsRecorded)
	fmt.Fprintf(out, "  %-24s %d\n", "State changes:", m.StateChanges)
	fmt.Fprintf(out, "  %-24s %d\n", "Fetch failures:", m.FetchFailures)
	fmt.Fprintf(out, "  %-24s %d (%d without prediction)\n", "Forecasts:", m.ForecastsComputed, m.ForecastFailures)
	fmt.Fprintf(out, "  %-24s %d\n", "Tags skipped:", m.TagsSkipped)

	if len(m.ObservationsByState) > 0 {
		fmt.Fprintln(out, "\n  Observations by state:")
		states := make([]string, 0, len(m.ObservationsByState))
		for s := range m.ObservationsByState {
			states = append(states, s)
		}
		sort.Strings(states)
		for _, s := range states {
			fmt.Fprintf(out, "    %-20s %d\n", s+":", m.ObservationsByState[s])
		}
	}

	if m.OldestEvent != nil {
		fmt.Fprintf(out, "\n  %-24s %s\n", "Oldest event:", m.OldestEvent.Format(time.RFC3339))
	}
	if m.NewestEvent != nil {
		fmt.Fprintf(out, "  %-24s %s\n", "Newest event:", m.NewestEvent.Format(time.RFC3339))
	}
}

func textfilePath() string {
	if metricsTextfile != "" {
		return metricsTextfile
	}
	return MetricsTextfile
}

func exportTextfile(cmd *cobra.Command, path string) error {
	if Tracker == nil {
		return fmt.Errorf("tracker not initialized")
	}
	today, err := resolveToday()
	if err != nil {
		return err
	}
	// Gauges are still useful without a prediction, so the error is dropped
	// as long as a forecast came back.
	f, err := Tracker.Forecast(cmd.Context(), today, DefaultHorizon)
	if f == nil {
		return fmt.Errorf("computing forecast for textfile: %w", err)
	}
	if err := observability.WriteForecastTextfile(path, f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote forecast metrics to %s\n", path)
	return nil
}

// parseSinceDuration parses a human-friendly duration string like "7d", "30d",
// or "24h" and returns the corresponding time in the past.
func parseSinceDuration(s string) (time.Time, error) {
	current := now()
	s = strings.TrimSpace(s)
	if s == "" {
		return current.AddDate(0, 0, -30), nil
	}

	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid day duration %q", s)
		}
		return current.AddDate(0, 0, -days), nil
	}

	if strings.HasSuffix(s, "h") {
		hours, err := strconv.Atoi(strings.TrimSuffix(s, "h"))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid hour duration %q", s)
		}
		return current.Add(-time.Duration(hours) * time.Hour), nil
	}

	return time.Time{}, fmt.Errorf("unsupported duration format %q (use e.g. 7d, 30d, 24h)", s)
}

func init() {
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "Output metrics as JSON")
	metricsCmd.Flags().StringVar(&metricsSince, "since", "30d", "Time window for metrics (e.g. 7d, 30d, 24h)")
	metricsCmd.Flags().StringVar(&metricsTextfile, "textfile", "", "Write forecast gauges to this Prometheus textfile")
	rootCmd.AddCommand(metricsCmd)
}
