package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/netnext/internal/core"
	"github.com/valter-silva-au/netnext/internal/observability"
	"github.com/valter-silva-au/netnext/pkg/models"
)

// trackerMock implements core.Tracker with overridable functions.
type trackerMock struct {
	recordFn   func(ctx context.Context, today time.Time) (*core.RecordResult, error)
	backfillFn func(start, today time.Time) (int, error)
	forecastFn func(ctx context.Context, today time.Time, horizon int) (*models.Forecast, error)
	history    []models.Observation
}

func (m *trackerMock) Record(ctx context.Context, today time.Time) (*core.RecordResult, error) {
	return m.recordFn(ctx, today)
}

func (m *trackerMock) Backfill(start, today time.Time) (int, error) {
	return m.backfillFn(start, today)
}

func (m *trackerMock) Forecast(ctx context.Context, today time.Time, horizon int) (*models.Forecast, error) {
	if m.forecastFn == nil {
		return &models.Forecast{Today: today}, nil
	}
	return m.forecastFn(ctx, today, horizon)
}

func (m *trackerMock) History() []models.Observation { return m.history }

func (m *trackerMock) Latest() (models.Observation, bool) {
	if len(m.history) == 0 {
		return models.Observation{}, false
	}
	return m.history[len(m.history)-1], true
}

type alertEngineMock struct {
	alerts []observability.Alert
	got    *observability.AlertInput
}

func (m *alertEngineMock) Evaluate(in observability.AlertInput) []observability.Alert {
	m.got = &in
	return m.alerts
}

type notifierMock struct {
	sent [][]observability.Alert
	err  error
}

func (m *notifierMock) Notify(_ context.Context, alerts []observability.Alert) error {
	m.sent = append(m.sent, alerts)
	return m.err
}

type metricsMock struct {
	calcFn func(since time.Time) (*observability.Metrics, error)
}

func (m *metricsMock) Calculate(since time.Time) (*observability.Metrics, error) {
	return m.calcFn(since)
}

// setServices swaps the package-level services for the duration of a test.
func setServices(t *testing.T, tr core.Tracker, engine observability.AlertEngine, notifier observability.Notifier) {
	t.Helper()
	origTracker, origEngine, origNotifier, origHorizon := Tracker, AlertEngine, Notifier, DefaultHorizon
	origMirror, origCalc, origTextfile := Mirror, MetricsCalc, MetricsTextfile
	t.Cleanup(func() {
		Tracker, AlertEngine, Notifier, DefaultHorizon = origTracker, origEngine, origNotifier, origHorizon
		Mirror, MetricsCalc, MetricsTextfile = origMirror, origCalc, origTextfile
	})
	Tracker = tr
	AlertEngine = engine
	Notifier = notifier
	DefaultHorizon = 3
}

// setToday pins --today for the duration of a test.
func setToday(t *testing.T, date string) {
	t.Helper()
	orig := todayFlag
	t.Cleanup(func() { todayFlag = orig })
	todayFlag = date
}

// runCommand invokes cmd's RunE with output captured.
func runCommand(t *testing.T, cmd *cobra.Command) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetContext(context.Background())
	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
	})
	err := cmd.RunE(cmd, nil)
	return out.String(), err
}

func day(y int, m time.Month, d int) time.Time {
	return models.Date(y, m, d)
}

// sampleForecast has one observed cycle and one predicted cycle.
func sampleForecast(today time.Time) *models.Forecast {
	observed := models.NewObservedCycle(day(2024, 3, 10), day(2024, 5, 12), day(2024, 5, 26))
	predicted := models.NewPredictedCycle(observed.Day3, 63, 14)
	return &models.Forecast{
		Today: today,
		Events: []models.TransitionEvent{
			{Date: day(2024, 3, 10), State: models.StateOpen},
			{Date: day(2024, 5, 12), State: models.StateClosed},
			{Date: day(2024, 5, 26), State: models.StateOpen},
		},
		Cycles:        []models.Cycle{observed, predicted},
		OpenAverage:   63,
		ClosedAverage: 14,
	}
}
