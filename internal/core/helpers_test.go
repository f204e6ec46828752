package core

import (
	"time"

	"github.com/valter-silva-au/netnext/pkg/models"
)

// baseDay is day 1 of every test timeline.
var baseDay = models.Date(2022, time.January, 1)

// day returns the date of 1-based day n of a test timeline.
func day(n int) time.Time {
	return models.AddDays(baseDay, n-1)
}

// span returns one observation per day for days from..to inclusive.
func span(from, to int, state models.State) []models.Observation {
	var obs []models.Observation
	for n := from; n <= to; n++ {
		obs = append(obs, models.Observation{Date: day(n), State: state})
	}
	return obs
}

// twoCycleTimeline is Open 1-50, Closed 51-64, Open 65-114, Closed 115-128,
// and the first day of the third Open span on day 129.
func twoCycleTimeline() []models.Observation {
	var obs []models.Observation
	obs = append(obs, span(1, 50, models.StateOpen)...)
	obs = append(obs, span(51, 64, models.StateClosed)...)
	obs = append(obs, span(65, 114, models.StateOpen)...)
	obs = append(obs, span(115, 128, models.StateClosed)...)
	obs = append(obs, span(129, 129, models.StateOpen)...)
	return obs
}

func event(n int, state models.State) models.TransitionEvent {
	return models.TransitionEvent{Date: day(n), State: state}
}

type recordingLogger struct {
	events []string
	data   []map[string]any
}

func (r *recordingLogger) LogEvent(eventType string, data map[string]any) error {
	r.events = append(r.events, eventType)
	r.data = append(r.data, data)
	return nil
}
