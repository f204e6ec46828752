package observability

import (
	"fmt"
	"time"
)

// Metrics holds counters derived from the event log.
type Metrics struct {
	ObservationsRecorded int            `json:"observations_recorded"`
	ObservationsByState  map[string]int `json:"observations_by_state"`
	StateChanges         int            `json:"state_changes"`
	FetchFailures        int            `json:"fetch_failures"`
	ForecastsComputed    int            `json:"forecasts_computed"`
	ForecastFailures     int            `json:"forecast_failures"`
	TagsSkipped          int            `json:"tags_skipped"`
	Runs                 int            `json:"runs"`
	EventCount           int            `json:"event_count"`
	OldestEvent          *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent          *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator reading from eventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate aggregates every event written at or after since.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{ObservationsByState: make(map[string]int)}
	m.EventCount = len(events)
	runs := make(map[string]struct{})

	for _, event := range events {
		t := event.Time
		if m.OldestEvent == nil || t.Before(*m.OldestEvent) {
			m.OldestEvent = &t
		}
		if m.NewestEvent == nil || t.After(*m.NewestEvent) {
			m.NewestEvent = &t
		}
		if event.RunID != "" {
			runs[event.RunID] = struct{}{}
		}

		switch event.Type {
		case EventStatusRecorded:
			m.ObservationsRecorded++
			if state, ok := event.Data["state"].(string); ok {
				m.ObservationsByState[state]++
			}
		case EventStatusChanged:
			m.StateChanges++
		case EventStatusFetchFailed:
			m.FetchFailures++
		case EventForecastComputed:
			m.ForecastsComputed++
			if msg, ok := event.Data["error"].(string); ok && msg != "" {
				m.ForecastFailures++
			}
		case EventTagsSkipped:
			// JSON numbers decode as float64.
			if n, ok := event.Data["count"].(float64); ok {
				m.TagsSkipped += int(n)
			}
		}
	}
	m.Runs = len(runs)

	return m, nil
}
