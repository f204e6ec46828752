package cli

import (
	"github.com/valter-silva-au/netnext/internal/core"
	"github.com/valter-silva-au/netnext/internal/integration"
	"github.com/valter-silva-au/netnext/internal/observability"
)

// Service instances, set during app initialization in app.go.
var (
	Tracker core.Tracker
	// Mirror is nil unless InfluxDB is configured.
	Mirror integration.ObservationMirror

	DefaultHorizon  int
	MetricsTextfile string
)

// Observability service instances, set during app initialization in app.go.
var (
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
)
