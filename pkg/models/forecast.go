package models

import "time"

// Forecast is the result of one pipeline run: the compacted transitions, the
// observed cycles followed by predicted ones, and the averages used to build
// the predictions.
type Forecast struct {
	Today         time.Time         `json:"today"`
	Events        []TransitionEvent `json:"events"`
	Cycles        []Cycle           `json:"cycles"`
	OpenAverage   int               `json:"open_average,omitempty"`
	ClosedAverage int               `json:"closed_average,omitempty"`
	// Adjusted is set when the first predicted cycle was moved to match
	// observations fresher than the averages.
	Adjusted bool `json:"adjusted"`
	// Aligned is set when release tags were attached to the cycles.
	Aligned bool `json:"aligned"`
}

// Observed returns the cycles built from real transitions.
func (f *Forecast) Observed() []Cycle {
	var out []Cycle
	for _, c := range f.Cycles {
		if !c.Predicted {
			out = append(out, c)
		}
	}
	return out
}

// Predicted returns the projected cycles.
func (f *Forecast) Predicted() []Cycle {
	var out []Cycle
	for _, c := range f.Cycles {
		if c.Predicted {
			out = append(out, c)
		}
	}
	return out
}

// LatestEvent returns the most recent transition, if any.
func (f *Forecast) LatestEvent() (TransitionEvent, bool) {
	if len(f.Events) == 0 {
		return TransitionEvent{}, false
	}
	return f.Events[len(f.Events)-1], true
}
