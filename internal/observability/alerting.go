package observability

import (
	"fmt"
	"time"

	"github.com/valter-silva-au/netnext/pkg/models"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert conditions.
const (
	ConditionStaleData         = "stale_data"
	ConditionWindowOverdue     = "window_overdue"
	ConditionWindowOpeningSoon = "window_opening_soon"
	ConditionStateChanged      = "state_changed"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts fire.
type AlertThresholds struct {
	StaleDays       int `yaml:"stale_days" json:"stale_days"`
	OpeningSoonDays int `yaml:"opening_soon_days" json:"opening_soon_days"`
}

// DefaultAlertThresholds returns the default thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{StaleDays: 2, OpeningSoonDays: 3}
}

// AlertInput is the state alerts are evaluated against. Forecast may be nil
// when no forecast could be computed.
type AlertInput struct {
	Today    time.Time
	Latest   *models.Observation
	Forecast *models.Forecast
}

// AlertEngine evaluates alert conditions.
type AlertEngine interface {
	Evaluate(in AlertInput) []Alert
}

type alertEngine struct {
	thresholds AlertThresholds
	now        func() time.Time
}

// NewAlertEngine creates an AlertEngine with the given thresholds.
func NewAlertEngine(thresholds AlertThresholds) AlertEngine {
	return &alertEngine{thresholds: thresholds, now: func() time.Time { return time.Now().UTC() }}
}

func (ae *alertEngine) Evaluate(in AlertInput) []Alert {
	today := models.Day(in.Today)
	now := ae.now()

	var alerts []Alert
	if a, ok := ae.checkStaleData(today, in.Latest, now); ok {
		alerts = append(alerts, a)
	}
	if in.Forecast != nil {
		if a, ok := ae.checkWindowOverdue(today, in.Forecast, now); ok {
			alerts = append(alerts, a)
		}
		if a, ok := ae.checkOpeningSoon(today, in.Forecast, now); ok {
			alerts = append(alerts, a)
		}
	}
	return alerts
}

// checkStaleData fires when nothing has been recorded for more than
// StaleDays days.
func (ae *alertEngine) checkStaleData(today time.Time, latest *models.Observation, now time.Time) (Alert, bool) {
	if latest == nil {
		return Alert{
			ID:          "stale-data",
			Condition:   ConditionStaleData,
			Severity:    SeverityHigh,
			Message:     "no net-next status has been recorded yet",
			TriggeredAt: now,
		}, true
	}
	age := models.DaysBetween(latest.Date, today)
	if age <= ae.thresholds.StaleDays {
		return Alert{}, false
	}
	return Alert{
		ID:          "stale-data",
		Condition:   ConditionStaleData,
		Severity:    SeverityHigh,
		Message:     fmt.Sprintf("last net-next status was recorded %d days ago on %s", age, latest.Date.Format(models.DateLayout)),
		TriggeredAt: now,
	}, true
}

// checkWindowOverdue fires when net-next has been Open for longer than the
// trailing average open span.
func (ae *alertEngine) checkWindowOverdue(today time.Time, f *models.Forecast, now time.Time) (Alert, bool) {
	last, ok := f.LatestEvent()
	if !ok || last.State != models.StateOpen || f.OpenAverage <= 0 {
		return Alert{}, false
	}
	expectedClose := models.AddDays(last.Date, f.OpenAverage)
	if !today.After(expectedClose) {
		return Alert{}, false
	}
	return Alert{
		ID:        "window-overdue-" + last.Date.Format(models.DateLayout),
		Condition: ConditionWindowOverdue,
		Severity:  SeverityMedium,
		Message: fmt.Sprintf("net-next has been open since %s, %d days past the expected close on %s",
			last.Date.Format(models.DateLayout), models.DaysBetween(expectedClose, today), expectedClose.Format(models.DateLayout)),
		TriggeredAt: now,
	}, true
}

// checkOpeningSoon fires while net-next is Closed and the predicted reopen
// is at most OpeningSoonDays away.
func (ae *alertEngine) checkOpeningSoon(today time.Time, f *models.Forecast, now time.Time) (Alert, bool) {
	last, ok := f.LatestEvent()
	if !ok || last.State != models.StateClosed {
		return Alert{}, false
	}
	predicted := f.Predicted()
	if len(predicted) == 0 {
		return Alert{}, false
	}
	reopen := predicted[0].Day3
	days := models.DaysBetween(today, reopen)
	if days < 0 || days > ae.thresholds.OpeningSoonDays {
		return Alert{}, false
	}
	return Alert{
		ID:          "opening-soon-" + reopen.Format(models.DateLayout),
		Condition:   ConditionWindowOpeningSoon,
		Severity:    SeverityLow,
		Message:     fmt.Sprintf("net-next is expected to reopen on %s (in %d days)", reopen.Format(models.DateLayout), days),
		TriggeredAt: now,
	}, true
}

// StateChangeAlert describes a recorded transition for notification.
func StateChangeAlert(from, to models.Observation) Alert {
	return Alert{
		ID:        "state-changed-" + to.Date.Format(models.DateLayout),
		Condition: ConditionStateChanged,
		Severity:  SeverityLow,
		Message: fmt.Sprintf("net-next is now %s (was %s on %s)",
			to.State, from.State, from.Date.Format(models.DateLayout)),
		TriggeredAt: time.Now().UTC(),
	}
}
