package core

import (
	"context"
	"fmt"
	"time"

	"github.com/valter-silva-au/netnext/pkg/models"
)

// ObservationStore is the datastore view the tracker needs. Declared here so
// core stays free of the storage package.
type ObservationStore interface {
	Record(obs models.Observation)
	Observations() []models.Observation
	Latest() (models.Observation, bool)
	Save() error
}

// StateSource reports the current net-next state.
type StateSource interface {
	Fetch(ctx context.Context) (models.State, error)
}

// TagSource supplies release tags used to label cycles.
type TagSource interface {
	Tags(ctx context.Context) ([]models.VersionTag, error)
}

// RecordResult describes one recorded observation.
type RecordResult struct {
	Observation models.Observation
	// Previous is the latest observation before the recorded day, if any.
	Previous *models.Observation
	// Changed is set when Previous exists and carries a different state.
	Changed bool
}

// Tracker records daily observations and forecasts from them.
type Tracker interface {
	// Record fetches the current state and stores it under today,
	// replacing an earlier observation for the same day.
	Record(ctx context.Context, today time.Time) (*RecordResult, error)
	// Backfill stores synthetic history from start up to the first stored
	// day (or today when the datastore is empty) and returns how many days
	// were added.
	Backfill(start, today time.Time) (int, error)
	// Forecast runs the pipeline over every stored observation.
	Forecast(ctx context.Context, today time.Time, horizon int) (*models.Forecast, error)
	History() []models.Observation
	Latest() (models.Observation, bool)
}

type tracker struct {
	store      ObservationStore
	source     StateSource
	tags       TagSource
	forecaster Forecaster
	events     EventLogger
}

// NewTracker wires a Tracker. source, tags and events may be nil; without a
// source Record fails, without tags cycles carry no version.
func NewTracker(store ObservationStore, source StateSource, tags TagSource, forecaster Forecaster, events EventLogger) Tracker {
	return &tracker{
		store:      store,
		source:     source,
		tags:       tags,
		forecaster: forecaster,
		events:     events,
	}
}

func (t *tracker) Record(ctx context.Context, today time.Time) (*RecordResult, error) {
	if t.source == nil {
		return nil, fmt.Errorf("recording status: no status source configured")
	}
	today = models.Day(today)

	state, err := t.source.Fetch(ctx)
	if err != nil {
		t.logEvent("status.fetch_failed", map[string]any{
			"date":  today.Format(models.DateLayout),
			"error": err.Error(),
		})
		return nil, fmt.Errorf("recording status: %w", err)
	}

	result := &RecordResult{Observation: models.Observation{Date: today, State: state}}
	if prev, ok := latestBefore(t.store.Observations(), today); ok {
		result.Previous = &prev
		result.Changed = prev.State != state
	}

	t.store.Record(result.Observation)
	if err := t.store.Save(); err != nil {
		return nil, fmt.Errorf("recording status: %w", err)
	}

	t.logEvent("status.recorded", map[string]any{
		"date":  today.Format(models.DateLayout),
		"state": string(state),
	})
	if result.Changed {
		t.logEvent("status.changed", map[string]any{
			"date": today.Format(models.DateLayout),
			"from": string(result.Previous.State),
			"to":   string(state),
		})
	}
	return result, nil
}

func (t *tracker) Backfill(start, today time.Time) (int, error) {
	until := models.Day(today)
	if obs := t.store.Observations(); len(obs) > 0 {
		until = obs[0].Date
	}

	history := SyntheticHistory(start, until)
	if len(history) == 0 {
		return 0, nil
	}
	for _, o := range history {
		t.store.Record(o)
	}
	if err := t.store.Save(); err != nil {
		return 0, fmt.Errorf("backfilling history: %w", err)
	}
	return len(history), nil
}

func (t *tracker) Forecast(ctx context.Context, today time.Time, horizon int) (*models.Forecast, error) {
	var tags []models.VersionTag
	if t.tags != nil {
		var err error
		tags, err = t.tags.Tags(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading release tags: %w", err)
		}
	}
	return t.forecaster.Forecast(ForecastRequest{
		Observations: t.store.Observations(),
		Tags:         tags,
		Today:        today,
		Horizon:      horizon,
	})
}

func (t *tracker) History() []models.Observation {
	return t.store.Observations()
}

func (t *tracker) Latest() (models.Observation, bool) {
	return t.store.Latest()
}

func (t *tracker) logEvent(eventType string, data map[string]any) {
	if t.events == nil {
		return
	}
	_ = t.events.LogEvent(eventType, data) // Non-fatal.
}

// latestBefore returns the last observation dated strictly before day.
func latestBefore(obs []models.Observation, day time.Time) (models.Observation, bool) {
	var found models.Observation
	ok := false
	for _, o := range obs {
		if o.Date.Before(day) && (!ok || o.Date.After(found.Date)) {
			found, ok = o, true
		}
	}
	return found, ok
}
