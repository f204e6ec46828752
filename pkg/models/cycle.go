package models

import (
	"fmt"
	"time"
)

// Cycle is one merge-window period: an Open span starting on Day1, a Closed
// span starting on Day2, and the next Open span starting on Day3. The cycle
// ends the day before Day3.
type Cycle struct {
	Day1       time.Time `json:"day1"`
	Day2       time.Time `json:"day2"`
	Day3       time.Time `json:"day3"`
	OpenDays   int       `json:"open_days"`
	ClosedDays int       `json:"closed_days"`
	Predicted  bool      `json:"predicted"`
	Version    *Version  `json:"version,omitempty"`
}

// NewObservedCycle builds a cycle from three real transition dates.
func NewObservedCycle(day1, day2, day3 time.Time) Cycle {
	c := Cycle{Day1: Day(day1), Day2: Day(day2), Day3: Day(day3)}
	c.OpenDays = DaysBetween(c.Day1, c.Day2)
	c.ClosedDays = DaysBetween(c.Day2, c.Day3)
	return c
}

// NewPredictedCycle projects a cycle starting on day1 with the given span
// lengths in days.
func NewPredictedCycle(day1 time.Time, openDays, closedDays int) Cycle {
	d1 := Day(day1)
	d2 := AddDays(d1, openDays)
	return Cycle{
		Day1:       d1,
		Day2:       d2,
		Day3:       AddDays(d2, closedDays),
		OpenDays:   openDays,
		ClosedDays: closedDays,
		Predicted:  true,
	}
}

// End returns the last calendar day of the cycle.
func (c Cycle) End() time.Time {
	return AddDays(c.Day3, -1)
}

// Valid reports whether the cycle boundaries are strictly increasing.
func (c Cycle) Valid() bool {
	return c.Day1.Before(c.Day2) && c.Day2.Before(c.Day3)
}

func (c Cycle) String() string {
	kind := "observed"
	if c.Predicted {
		kind = "predicted"
	}
	s := fmt.Sprintf("%s: open %d days, closed %d days, ending %s (%s)",
		c.Day1.Format(DateLayout), c.OpenDays, c.ClosedDays, c.End().Format(DateLayout), kind)
	if c.Version != nil {
		s += " " + c.Version.String()
	}
	return s
}
