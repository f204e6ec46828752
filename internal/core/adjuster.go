package core

import (
	"time"

	"github.com/valter-silva-au/netnext/pkg/models"
)

// AdjustLive corrects the first predicted cycle so that it agrees with the
// latest real transitions as of today. It reports whether the cycle changed.
//
// While the window is still Open past the predicted close, the close moves to
// the day after today. Once the window has closed, the open span is anchored to
// the last two real transitions, and the next opening moves to the day after
// today while the closed span outlasts its prediction.
func AdjustLive(c *models.Cycle, events []models.TransitionEvent, today time.Time) bool {
	if c == nil || len(events) < 2 {
		return false
	}
	today = models.Day(today)
	if today.Before(c.Day2) {
		return false
	}

	latest := events[len(events)-1]
	switch latest.State {
	case models.StateOpen:
		c.Day2 = models.AddDays(today, 1)
		c.OpenDays = models.DaysBetween(c.Day1, c.Day2)
		c.Day3 = models.AddDays(c.Day2, c.ClosedDays)
		return true
	case models.StateClosed:
		c.Day1 = events[len(events)-2].Date
		c.Day2 = latest.Date
		c.OpenDays = models.DaysBetween(c.Day1, c.Day2)
		c.Day3 = models.AddDays(c.Day2, c.ClosedDays)
		if !today.Before(c.Day3) {
			c.Day3 = models.AddDays(today, 1)
			c.ClosedDays = models.DaysBetween(c.Day2, c.Day3)
		}
		return true
	}
	return false
}

// firstPredicted returns the index of the first predicted cycle, or -1.
func firstPredicted(cycles []models.Cycle) int {
	for i, c := range cycles {
		if c.Predicted {
			return i
		}
	}
	return -1
}
