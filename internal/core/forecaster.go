package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/valter-silva-au/netnext/pkg/models"
)

// ForecastRequest carries the inputs of one pipeline run.
type ForecastRequest struct {
	Observations []models.Observation
	// Tags are optional; without them cycles carry no version.
	Tags []models.VersionTag
	// Today is injected by the caller; the pipeline never reads the clock.
	Today time.Time
	// Horizon is the number of cycles to project. Zero yields history only.
	Horizon int
}

// Forecaster runs the cycle inference pipeline.
type Forecaster interface {
	Forecast(req ForecastRequest) (*models.Forecast, error)
}

type forecaster struct {
	minOpenDays int
	events      EventLogger
}

// NewForecaster creates a Forecaster that discards cycles with fewer than
// minOpenDays open days. events may be nil.
func NewForecaster(minOpenDays int, events EventLogger) Forecaster {
	if minOpenDays <= 0 {
		minOpenDays = DefaultMinOpenDays
	}
	return &forecaster{minOpenDays: minOpenDays, events: events}
}

// Forecast compacts, segments, predicts, adjusts and aligns. When prediction
// fails the returned forecast still holds the observed cycles together with
// the error.
func (f *forecaster) Forecast(req ForecastRequest) (*models.Forecast, error) {
	obs := make([]models.Observation, len(req.Observations))
	copy(obs, req.Observations)
	models.SortObservations(obs)

	today := models.Day(req.Today)
	events := CompactTimeline(obs)
	result := &models.Forecast{
		Today:  today,
		Events: events,
		Cycles: SegmentCycles(events, f.minOpenDays),
	}

	var predictErr error
	if req.Horizon > 0 {
		predictErr = f.predict(result, req.Horizon)
	}

	if aligned, err := AlignVersions(result.Cycles, req.Tags); err == nil {
		result.Cycles = aligned
		result.Aligned = true
	} else if !errors.Is(err, ErrNoVersionData) {
		return result, fmt.Errorf("aligning versions: %w", err)
	}

	f.logForecast(result, predictErr)

	if predictErr != nil {
		return result, fmt.Errorf("predicting cycles: %w", predictErr)
	}
	return result, nil
}

func (f *forecaster) predict(result *models.Forecast, horizon int) error {
	open, closed, err := TrailingAverages(result.Cycles)
	if err != nil {
		return err
	}
	cycles, err := PredictCycles(result.Cycles, horizon)
	if err != nil {
		return err
	}
	result.OpenAverage = open
	result.ClosedAverage = closed

	if i := firstPredicted(cycles); i >= 0 {
		if AdjustLive(&cycles[i], result.Events, result.Today) {
			RechainPredicted(cycles, open, closed)
			result.Adjusted = true
		}
	}
	result.Cycles = cycles
	return nil
}

func (f *forecaster) logForecast(result *models.Forecast, predictErr error) {
	if f.events == nil {
		return
	}
	data := map[string]any{
		"today":          result.Today.Format(models.DateLayout),
		"transitions":    len(result.Events),
		"observed":       len(result.Observed()),
		"predicted":      len(result.Predicted()),
		"open_average":   result.OpenAverage,
		"closed_average": result.ClosedAverage,
		"adjusted":       result.Adjusted,
		"aligned":        result.Aligned,
	}
	if predictErr != nil {
		data["error"] = predictErr.Error()
	}
	_ = f.events.LogEvent("forecast.computed", data) // Non-fatal.
}
