package core

import (
	"time"

	"github.com/valter-silva-au/netnext/pkg/models"
)

// Synthetic history period: every 65 days the window is open for 51 days and
// closed for 14.
const (
	SyntheticOpenDays   = 51
	SyntheticClosedDays = 14
)

// DefaultBackfillStart is the first day of generated history.
var DefaultBackfillStart = models.Date(2010, time.January, 1)

// SyntheticHistory generates one observation per day from start up to, but not
// including, until. Day 0 is the first day of an Open span.
func SyntheticHistory(start, until time.Time) []models.Observation {
	period := SyntheticOpenDays + SyntheticClosedDays
	var obs []models.Observation
	index := 0
	for day := models.Day(start); day.Before(models.Day(until)); day = models.AddDays(day, 1) {
		state := models.StateOpen
		if index >= SyntheticOpenDays {
			state = models.StateClosed
		}
		obs = append(obs, models.Observation{Date: day, State: state})
		index = (index + 1) % period
	}
	return obs
}
