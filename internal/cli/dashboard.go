package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/valter-silva-au/netnext/internal/observability"
	"github.com/valter-silva-au/netnext/pkg/models"
)

// Dashboard panel indices.
const (
	panelStatus = iota
	panelForecast
	panelAlerts
	panelCount
)

type dashboardModel struct {
	activePanel int
	width       int
	height      int
	today       time.Time

	latest   *models.Observation
	forecast *models.Forecast
	note     string
	alerts   []observability.Alert
	metrics  *observability.Metrics

	loading bool
	err     error
}

// dashboardLoadedMsg carries a refreshed snapshot back to the model.
type dashboardLoadedMsg struct {
	latest   *models.Observation
	forecast *models.Forecast
	note     string
	alerts   []observability.Alert
	metrics  *observability.Metrics
	err      error
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = panelStyle.BorderForeground(lipgloss.Color("62"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	severityHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	severityMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	severityLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel(today time.Time) dashboardModel {
	return dashboardModel{
		activePanel: panelStatus,
		today:       today,
		loading:     true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadDashboard(m.today)
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadDashboard(m.today)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.latest = msg.latest
		m.forecast = msg.forecast
		m.note = msg.note
		m.alerts = msg.alerts
		m.metrics = msg.metrics
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" net-next " + m.today.Format(models.DateLayout) + " ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}
	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	panels := []string{m.renderStatusPanel(), m.renderForecastPanel(), m.renderAlertsPanel()}
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		colWidth := availableWidth/3 - 4
		for i := range panels {
			panels[i] = m.applyPanelStyle(i, panels[i], colWidth)
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, panels...)
	} else {
		panelWidth := max(availableWidth-4, 20)
		for i := range panels {
			panels[i] = m.applyPanelStyle(i, panels[i], panelWidth)
		}
		body = lipgloss.JoinVertical(lipgloss.Left, panels...)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderStatusPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Status"))
	b.WriteString("\n")

	if m.latest == nil {
		b.WriteString("  Nothing recorded yet.")
		return b.String()
	}
	fmt.Fprintf(&b, "  %s on %s\n",
		styleForState(m.latest.State).Render(string(m.latest.State)),
		m.latest.Date.Format(models.DateLayout))

	if m.forecast != nil {
		if last, ok := m.forecast.LatestEvent(); ok {
			fmt.Fprintf(&b, "  since %s (%d days)\n",
				last.Date.Format(models.DateLayout), models.DaysBetween(last.Date, m.today))
		}
	}

	if m.metrics != nil {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %-16s %d\n", "Recorded (30d)", m.metrics.ObservationsRecorded)
		fmt.Fprintf(&b, "  %-16s %d\n", "Changes (30d)", m.metrics.StateChanges)
		fmt.Fprintf(&b, "  %-16s %d\n", "Fetch failures", m.metrics.FetchFailures)
	}
	return b.String()
}

func (m dashboardModel) renderForecastPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Forecast"))
	b.WriteString("\n")

	if m.forecast == nil || len(m.forecast.Cycles) == 0 {
		b.WriteString("  No cycles yet.")
		if m.note != "" {
			b.WriteString("\n  " + noteStyle.Render(m.note))
		}
		return b.String()
	}

	observed := m.forecast.Observed()
	if len(observed) > 0 {
		last := observed[len(observed)-1]
		fmt.Fprintf(&b, "  %s\n", observedStyle.Render(cycleLine(last)))
	}
	for _, c := range m.forecast.Predicted() {
		fmt.Fprintf(&b, "  %s\n", predictedStyle.Render(cycleLine(c)))
	}
	if m.note != "" {
		b.WriteString("\n  " + noteStyle.Render(m.note))
	}
	return b.String()
}

func cycleLine(c models.Cycle) string {
	line := fmt.Sprintf("%s close %s open %s",
		c.Day1.Format(models.DateLayout), c.Day2.Format(models.DateLayout), c.Day3.Format(models.DateLayout))
	if c.Version != nil {
		line += " " + c.Version.String()
	}
	return line
}

func (m dashboardModel) renderAlertsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Alerts"))
	b.WriteString("\n")

	if len(m.alerts) == 0 {
		b.WriteString("  No active alerts.")
		return b.String()
	}
	for _, a := range m.alerts {
		sev := styleForSeverity(string(a.Severity)).Render(fmt.Sprintf("[%s]", strings.ToUpper(string(a.Severity))))
		fmt.Fprintf(&b, "  %s %s\n", sev, a.Message)
	}
	return b.String()
}

func styleForSeverity(severity string) lipgloss.Style {
	switch strings.ToLower(severity) {
	case "high":
		return severityHigh
	case "medium":
		return severityMedium
	case "low":
		return severityLow
	default:
		return lipgloss.NewStyle()
	}
}

func loadDashboard(today time.Time) tea.Cmd {
	return func() tea.Msg {
		var result dashboardLoadedMsg
		ctx := context.Background()

		if latest, ok := Tracker.Latest(); ok {
			result.latest = &latest
		}
		f, err := Tracker.Forecast(ctx, today, DefaultHorizon)
		if f == nil {
			result.err = fmt.Errorf("computing forecast: %w", err)
			return result
		}
		result.forecast = f
		if err != nil {
			result.note = "No prediction: " + err.Error()
		} else if f.Adjusted {
			result.note = "Next cycle adjusted to live state."
		}

		if AlertEngine != nil {
			result.alerts = evaluateAlerts(ctx, today)
		}

		if MetricsCalc != nil {
			metrics, err := MetricsCalc.Calculate(today.AddDate(0, 0, -30))
			if err != nil {
				result.err = fmt.Errorf("loading metrics: %w", err)
				return result
			}
			result.metrics = metrics
		}
		return result
	}
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard for status, forecast and alerts",
	Long: `Launch an interactive terminal dashboard showing the latest recorded
status, the predicted cycles and active alerts.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("tracker not initialized")
		}
		today, err := resolveToday()
		if err != nil {
			return err
		}
		p := tea.NewProgram(newDashboardModel(today), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
