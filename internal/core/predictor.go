package core

import (
	"errors"

	"github.com/valter-silva-au/netnext/pkg/models"
)

// ErrInsufficientHistory is returned when no valid cycle exists to average.
var ErrInsufficientHistory = errors.New("insufficient history: no complete cycles to average")

const (
	// TrailingWindow is the number of most recent cycles averaged.
	TrailingWindow = 3
	// DefaultHorizon is the number of cycles projected by default.
	DefaultHorizon = 3
)

// TrailingAverages returns the truncated mean open and closed durations of the
// last TrailingWindow cycles (or all of them when fewer exist).
func TrailingAverages(cycles []models.Cycle) (open, closed int, err error) {
	if len(cycles) == 0 {
		return 0, 0, ErrInsufficientHistory
	}
	start := len(cycles) - TrailingWindow
	if start < 0 {
		start = 0
	}
	trailing := cycles[start:]
	var sumOpen, sumClosed int
	for _, c := range trailing {
		sumOpen += c.OpenDays
		sumClosed += c.ClosedDays
	}
	return sumOpen / len(trailing), sumClosed / len(trailing), nil
}

// PredictCycles appends horizon predicted cycles to a copy of cycles. The
// first prediction starts where the last cycle ends and every following one
// starts where its predecessor ends.
func PredictCycles(cycles []models.Cycle, horizon int) ([]models.Cycle, error) {
	open, closed, err := TrailingAverages(cycles)
	if err != nil {
		return nil, err
	}
	out := make([]models.Cycle, len(cycles), len(cycles)+horizon)
	copy(out, cycles)
	next := cycles[len(cycles)-1].Day3
	for k := 0; k < horizon; k++ {
		c := models.NewPredictedCycle(next, open, closed)
		out = append(out, c)
		next = c.Day3
	}
	return out, nil
}

// RechainPredicted moves every predicted cycle after the first one so that
// each starts where its predecessor ends, keeping the averaged durations.
func RechainPredicted(cycles []models.Cycle, open, closed int) {
	first := firstPredicted(cycles)
	if first < 0 {
		return
	}
	for i := first + 1; i < len(cycles); i++ {
		cycles[i] = models.NewPredictedCycle(cycles[i-1].Day3, open, closed)
	}
}
