// Package internal provides the App struct that wires the netnext components
// together and initializes the CLI layer.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/valter-silva-au/netnext/internal/cli"
	"github.com/valter-silva-au/netnext/internal/core"
	"github.com/valter-silva-au/netnext/internal/integration"
	"github.com/valter-silva-au/netnext/internal/observability"
	"github.com/valter-silva-au/netnext/internal/storage"
	"github.com/valter-silva-au/netnext/pkg/models"
)

// EventLogFileName is the JSONL event log kept next to the configuration.
const EventLogFileName = ".netnext_events.jsonl"

// App holds all service dependencies of netnext.
type App struct {
	BasePath string
	RunID    string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.GlobalConfig

	// Storage layer
	Store storage.StatusStore

	// Integration services
	Fetcher   integration.StatusFetcher
	TagReader integration.TagReader
	// Mirror is nil unless InfluxDB is configured and reachable.
	Mirror integration.ObservationMirror

	// Core services
	Forecaster core.Forecaster
	Tracker    core.Tracker

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
}

// NewApp loads .netnextconfig from basePath and wires every component.
// Optional subsystems (event log, tags, InfluxDB) that fail to initialize
// are disabled with a warning instead of failing the command.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath, RunID: uuid.NewString()}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Observability ---
	app.EventLog, err = observability.NewJSONLEventLog(filepath.Join(basePath, EventLogFileName))
	if err != nil {
		slog.Warn("event log disabled", "error", err)
		app.EventLog = nil
	}
	var evtAdapter core.EventLogger
	if app.EventLog != nil {
		evtAdapter = &eventLogAdapter{log: app.EventLog, runID: app.RunID}
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}
	thresholds := observability.DefaultAlertThresholds()
	if cfg.Notifications.StaleDays > 0 {
		thresholds.StaleDays = cfg.Notifications.StaleDays
	}
	app.AlertEngine = observability.NewAlertEngine(thresholds)
	if cfg.Notifications.Enabled && cfg.Notifications.Slack.WebhookURL != "" {
		app.Notifier = observability.NewSlackNotifier(cfg.Notifications.Slack.WebhookURL)
	}

	// --- Storage layer ---
	app.Store, err = storage.Open(cfg.Datastore)
	if err != nil {
		if app.EventLog != nil {
			_ = app.EventLog.Close()
		}
		return nil, fmt.Errorf("opening datastore: %w", err)
	}

	// --- Integration services ---
	app.Fetcher = integration.NewStatusFetcher(cfg.Source.URL, time.Duration(cfg.Source.TimeoutSeconds)*time.Second)

	var tags core.TagSource
	if cfg.Tags.Repo != "" {
		app.TagReader, err = integration.NewGitTagReader(cfg.Tags.Repo, cfg.Tags.Pattern)
		if err != nil {
			slog.Warn("release tags disabled", "repo", cfg.Tags.Repo, "error", err)
			app.TagReader = nil
		} else {
			tags = &tagSourceAdapter{reader: app.TagReader, events: evtAdapter}
		}
	}

	if cfg.Influx.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		app.Mirror, err = integration.NewInfluxMirror(ctx, cfg.Influx)
		cancel()
		if err != nil {
			slog.Warn("influxdb mirror disabled", "error", err)
			app.Mirror = nil
		}
	}

	// --- Core services ---
	app.Forecaster = core.NewForecaster(cfg.Forecast.MinOpenDays, evtAdapter)
	app.Tracker = core.NewTracker(app.Store, app.Fetcher, tags, app.Forecaster, evtAdapter)

	// --- Wire CLI package-level variables ---
	cli.Tracker = app.Tracker
	cli.DefaultHorizon = cfg.Forecast.Horizon
	cli.MetricsTextfile = cfg.Metrics.Textfile
	cli.Mirror = app.Mirror

	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc
	cli.Notifier = app.Notifier

	return app, nil
}

// Close releases the datastore, the event log and the InfluxDB client. It is
// safe to call on an App whose optional subsystems are nil.
func (a *App) Close() error {
	if a.Mirror != nil {
		a.Mirror.Close()
	}
	var firstErr error
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			firstErr = fmt.Errorf("closing datastore: %w", err)
		}
	}
	if a.EventLog != nil {
		if err := a.EventLog.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing event log: %w", err)
		}
	}
	return firstErr
}

// ResolveBasePath determines the netnext data directory. NETNEXT_HOME wins,
// then the nearest ancestor of the working directory holding .netnextconfig,
// then ~/.local/share/netnextstatus.
func ResolveBasePath() string {
	if home := os.Getenv("NETNEXT_HOME"); home != "" {
		return home
	}

	if dir, err := os.Getwd(); err == nil {
		for {
			if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName)); err == nil {
				return dir
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "netnextstatus")
}

// --- Adapters ---

// eventLogAdapter adapts observability.EventLog to core.EventLogger and
// stamps every event with the process run ID.
type eventLogAdapter struct {
	log   observability.EventLog
	runID string
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	level := "INFO"
	switch eventType {
	case observability.EventStatusFetchFailed, observability.EventTagsSkipped:
		level = "WARN"
	}
	return a.log.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   level,
		Type:    eventType,
		RunID:   a.runID,
		Message: eventType,
		Data:    data,
	})
}

// tagSourceAdapter adapts integration.TagReader to core.TagSource. Tags that
// could not be parsed are reported but do not fail the forecast.
type tagSourceAdapter struct {
	reader integration.TagReader
	events core.EventLogger
}

func (a *tagSourceAdapter) Tags(ctx context.Context) ([]models.VersionTag, error) {
	tags, skipped, err := a.reader.ReadTags(ctx)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		names := make([]string, len(skipped))
		for i, s := range skipped {
			names[i] = s.Name
			slog.Debug("skipped release tag", "tag", s.Name, "reason", s.Reason)
		}
		if a.events != nil {
			_ = a.events.LogEvent(observability.EventTagsSkipped, map[string]any{
				"count": len(skipped),
				"names": names,
			})
		}
	}
	return tags, nil
}
