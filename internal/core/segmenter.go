package core

import "github.com/valter-silva-au/netnext/pkg/models"

// DefaultMinOpenDays is the shortest Open span accepted as a merge window.
// Shorter spans are same-day flaps of the status page.
const DefaultMinOpenDays = 20

// SegmentCycles groups transitions into fully observed cycles. A cycle needs
// an Open event followed by a Closed and an Open event; an Open event among
// the last two transitions starts an incomplete cycle and is left for the
// live adjuster. Cycles with fewer than minOpenDays open days are dropped.
func SegmentCycles(events []models.TransitionEvent, minOpenDays int) []models.Cycle {
	var cycles []models.Cycle
	for i := 0; i+2 < len(events); i++ {
		if events[i].State != models.StateOpen {
			continue
		}
		if events[i+1].State != models.StateClosed || events[i+2].State != models.StateOpen {
			continue
		}
		c := models.NewObservedCycle(events[i].Date, events[i+1].Date, events[i+2].Date)
		if c.OpenDays < minOpenDays {
			continue
		}
		cycles = append(cycles, c)
	}
	return cycles
}
