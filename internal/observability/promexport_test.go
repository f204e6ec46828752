package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valter-silva-au/netnext/pkg/models"
)

func sampleForecast() *models.Forecast {
	d := models.Date(2022, 1, 1)
	observed := models.NewObservedCycle(d, models.AddDays(d, 50), models.AddDays(d, 64))
	next := models.NewPredictedCycle(observed.Day3, 50, 14)
	return &models.Forecast{
		Today: models.AddDays(d, 70),
		Events: []models.TransitionEvent{
			{Date: d, State: models.StateOpen},
			{Date: models.AddDays(d, 50), State: models.StateClosed},
			{Date: models.AddDays(d, 64), State: models.StateOpen},
		},
		Cycles:        []models.Cycle{observed, next},
		OpenAverage:   50,
		ClosedAverage: 14,
	}
}

func TestWriteForecastTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netnext.prom")
	f := sampleForecast()
	if err := WriteForecastTextfile(path, f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		"netnext_open 1",
		"netnext_open_average_days 50",
		"netnext_closed_average_days 14",
		"netnext_forecast_adjusted 0",
		`netnext_cycles{kind="observed"} 1`,
		`netnext_cycles{kind="predicted"} 1`,
		"# HELP netnext_next_open_timestamp_seconds",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in textfile:\n%s", want, out)
		}
	}
}

func TestForecastRegistry_ClosedAndEmpty(t *testing.T) {
	reg := ForecastRegistry(&models.Forecast{})
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "netnext_open" && mf.GetMetric()[0].GetGauge().GetValue() != 0 {
			t.Fatal("expected netnext_open 0 without transitions")
		}
	}
}

func TestWriteForecastTextfile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "netnext.prom")
	if err := WriteForecastTextfile(path, sampleForecast()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
