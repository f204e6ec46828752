package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/valter-silva-au/netnext/pkg/models"
)

// ForecastRegistry builds a registry holding gauges that describe f.
func ForecastRegistry(f *models.Forecast) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	open := factory.NewGauge(prometheus.GaugeOpts{
		Name: "netnext_open",
		Help: "1 while the latest transition is Open, 0 otherwise",
	})
	openAvg := factory.NewGauge(prometheus.GaugeOpts{
		Name: "netnext_open_average_days",
		Help: "Trailing average length of the open span in days",
	})
	closedAvg := factory.NewGauge(prometheus.GaugeOpts{
		Name: "netnext_closed_average_days",
		Help: "Trailing average length of the closed span in days",
	})
	adjusted := factory.NewGauge(prometheus.GaugeOpts{
		Name: "netnext_forecast_adjusted",
		Help: "1 when the first predicted cycle was moved to match live transitions",
	})
	cycles := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "netnext_cycles",
		Help: "Number of cycles in the forecast by kind",
	}, []string{"kind"})
	nextClose := factory.NewGauge(prometheus.GaugeOpts{
		Name: "netnext_next_close_timestamp_seconds",
		Help: "Unix time of the predicted start of the next closed span",
	})
	nextOpen := factory.NewGauge(prometheus.GaugeOpts{
		Name: "netnext_next_open_timestamp_seconds",
		Help: "Unix time of the predicted start of the next open span",
	})

	if last, ok := f.LatestEvent(); ok && last.State == models.StateOpen {
		open.Set(1)
	}
	openAvg.Set(float64(f.OpenAverage))
	closedAvg.Set(float64(f.ClosedAverage))
	if f.Adjusted {
		adjusted.Set(1)
	}
	cycles.WithLabelValues("observed").Set(float64(len(f.Observed())))
	predicted := f.Predicted()
	cycles.WithLabelValues("predicted").Set(float64(len(predicted)))
	if len(predicted) > 0 {
		nextClose.Set(float64(predicted[0].Day2.Unix()))
		nextOpen.Set(float64(predicted[0].Day3.Unix()))
	}
	return reg
}

// WriteForecastTextfile writes the forecast gauges to path in the text
// exposition format read by node_exporter's textfile collector.
func WriteForecastTextfile(path string, f *models.Forecast) error {
	if err := prometheus.WriteToTextfile(path, ForecastRegistry(f)); err != nil {
		return fmt.Errorf("writing metrics textfile %s: %w", path, err)
	}
	return nil
}
