package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/valter-silva-au/netnext/internal/core"
	"github.com/valter-silva-au/netnext/pkg/models"
)

var (
	forecastHorizon int
	forecastJSON    bool
)

var (
	observedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	predictedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Italic(true)
	stateOpen      = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	stateClosed    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	noteStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Show observed merge-window cycles and predict the next ones",
	Long: `Infer merge-window cycles from the recorded history and predict the
next --horizon cycles from the average of the last three.

The first prediction is corrected against the latest transitions: while
net-next stays open past the predicted close, the close moves to tomorrow.
When release tags are configured (tags.repo) each cycle is labeled with the
kernel version it produced.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("tracker not initialized")
		}
		today, err := resolveToday()
		if err != nil {
			return err
		}
		horizon := forecastHorizon
		if horizon < 0 {
			horizon = DefaultHorizon
		}

		f, err := Tracker.Forecast(cmd.Context(), today, horizon)
		if f == nil {
			return err
		}
		if err != nil && !errors.Is(err, core.ErrInsufficientHistory) {
			return err
		}
		if err != nil {
			slog.Warn("no prediction", "reason", err)
		}

		out := cmd.OutOrStdout()
		if forecastJSON {
			data, jerr := json.MarshalIndent(f, "", "  ")
			if jerr != nil {
				return fmt.Errorf("formatting forecast as JSON: %w", jerr)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		renderForecast(out, f, err)
		return nil
	},
}

func renderForecast(w io.Writer, f *models.Forecast, predictErr error) {
	if last, ok := f.LatestEvent(); ok {
		fmt.Fprintf(w, "net-next is %s since %s (%d days)\n\n",
			styleForState(last.State).Render(string(last.State)),
			last.Date.Format(models.DateLayout),
			models.DaysBetween(last.Date, f.Today))
	} else {
		fmt.Fprintln(w, "No observations recorded yet.")
		return
	}

	if len(f.Cycles) == 0 {
		fmt.Fprintln(w, noteStyle.Render("No complete cycle observed yet."))
	}
	for _, c := range f.Cycles {
		style := observedStyle
		if c.Predicted {
			style = predictedStyle
		}
		fmt.Fprintln(w, style.Render(c.String()))
	}

	if predictErr != nil {
		fmt.Fprintf(w, "\n%s\n", noteStyle.Render("No prediction: "+predictErr.Error()))
		return
	}
	if f.OpenAverage > 0 || f.ClosedAverage > 0 {
		note := fmt.Sprintf("averages: open %d days, closed %d days", f.OpenAverage, f.ClosedAverage)
		if f.Adjusted {
			note += "; next cycle adjusted to live state"
		}
		fmt.Fprintf(w, "\n%s\n", noteStyle.Render(note))
	}
}

func styleForState(s models.State) lipgloss.Style {
	switch s {
	case models.StateOpen:
		return stateOpen
	case models.StateClosed:
		return stateClosed
	default:
		return noteStyle
	}
}

func init() {
	forecastCmd.Flags().IntVar(&forecastHorizon, "horizon", -1, "Number of cycles to predict (default from forecast.horizon; 0 shows history only)")
	forecastCmd.Flags().BoolVar(&forecastJSON, "json", false, "Output the forecast as JSON")
	rootCmd.AddCommand(forecastCmd)
}
