package models

import (
	"sort"
	"strings"
	"time"
)

// State is the observed net-next status on a given day.
type State string

const (
	StateOpen   State = "Open"
	StateClosed State = "Closed"
	// StateUnknown is recorded when the status page could not be parsed.
	StateUnknown State = "None"
)

// ParseState normalizes a raw status label ("open", "CLOSED", ...) by
// capitalizing it. Unrecognized labels are kept as distinct states.
func ParseState(raw string) State {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StateUnknown
	}
	return State(strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:]))
}

// IsKnown reports whether s is one of the two recognized labels.
func (s State) IsKnown() bool {
	return s == StateOpen || s == StateClosed
}

// Observation is the state recorded for one calendar day.
type Observation struct {
	Date  time.Time `yaml:"date" json:"date"`
	State State     `yaml:"state" json:"state"`
}

// TransitionEvent marks the first day of a run of identical states.
type TransitionEvent struct {
	Date  time.Time `json:"date"`
	State State     `json:"state"`
}

// SortObservations orders observations by date in place, keeping the
// relative order of entries sharing a date.
func SortObservations(obs []Observation) {
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].Date.Before(obs[j].Date)
	})
}
