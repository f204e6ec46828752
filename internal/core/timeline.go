package core

import "github.com/valter-silva-au/netnext/pkg/models"

// CompactTimeline collapses daily observations into the days on which the
// state changed. The first observation always produces an event. obs must be
// in ascending date order.
func CompactTimeline(obs []models.Observation) []models.TransitionEvent {
	var events []models.TransitionEvent
	var last models.State
	started := false
	for _, o := range obs {
		if started && o.State == last {
			continue
		}
		events = append(events, models.TransitionEvent{Date: models.Day(o.Date), State: o.State})
		last = o.State
		started = true
	}
	return events
}
