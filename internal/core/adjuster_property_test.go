package core

import (
	"testing"

	"github.com/valter-silva-au/netnext/pkg/models"
	"pgregory.net/rapid"
)

// Property: while the window stays open, a later today never moves the
// predicted close or the next opening earlier.
func TestProperty_AdjustLiveMonotonicWhileOpen(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		open := rapid.IntRange(20, 70).Draw(rt, "open")
		closed := rapid.IntRange(1, 30).Draw(rt, "closed")
		start := 100
		events := []models.TransitionEvent{
			event(start-closed, models.StateClosed),
			event(start, models.StateOpen),
		}
		base := models.NewPredictedCycle(day(start), open, closed)

		t1 := rapid.IntRange(start, start+200).Draw(rt, "today1")
		t2 := t1 + rapid.IntRange(0, 100).Draw(rt, "advance")

		c1, c2 := base, base
		AdjustLive(&c1, events, day(t1))
		AdjustLive(&c2, events, day(t2))

		if c2.Day2.Before(c1.Day2) || c2.Day3.Before(c1.Day3) {
			rt.Fatalf("later today moved boundaries back: %v then %v", c1, c2)
		}
		if !c1.Valid() || !c2.Valid() {
			rt.Fatalf("adjusted cycle invalid: %v / %v", c1, c2)
		}
	})
}

// Property: once the window has closed and the cycle has been anchored, a
// later today never moves the next opening earlier.
func TestProperty_AdjustLiveMonotonicAfterClose(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		open := rapid.IntRange(20, 70).Draw(rt, "open")
		closed := rapid.IntRange(1, 30).Draw(rt, "closed")
		start := 100
		realOpen := rapid.IntRange(1, open+30).Draw(rt, "realOpen")
		events := []models.TransitionEvent{
			event(start, models.StateOpen),
			event(start+realOpen, models.StateClosed),
		}
		base := models.NewPredictedCycle(day(start), open, closed)

		t1 := rapid.IntRange(start+open, start+open+200).Draw(rt, "today1")
		t2 := t1 + rapid.IntRange(0, 100).Draw(rt, "advance")

		c1, c2 := base, base
		AdjustLive(&c1, events, day(t1))
		AdjustLive(&c2, events, day(t2))

		if c2.Day2.Before(c1.Day2) || c2.Day3.Before(c1.Day3) {
			rt.Fatalf("later today moved boundaries back: %v then %v", c1, c2)
		}
		if !c2.Day2.Equal(day(start + realOpen)) {
			rt.Fatalf("Day2 = %s, want the real close %s", c2.Day2, day(start+realOpen))
		}
	})
}
