package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valter-silva-au/netnext/pkg/models"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
}

func TestLoadGlobalConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	cm := NewConfigurationManager(dir)

	cfg, err := cm.LoadGlobalConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Datastore.Backend != models.BackendYAML {
		t.Errorf("backend = %q, want yaml", cfg.Datastore.Backend)
	}
	if cfg.Datastore.Path != filepath.Join(dir, "status.csv") {
		t.Errorf("datastore path = %q", cfg.Datastore.Path)
	}
	if cfg.Source.URL != DefaultSourceURL {
		t.Errorf("source url = %q", cfg.Source.URL)
	}
	if cfg.Forecast.Horizon != DefaultHorizon || cfg.Forecast.MinOpenDays != DefaultMinOpenDays {
		t.Errorf("forecast = %+v", cfg.Forecast)
	}
	if err := cm.ValidateConfig(cfg); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadGlobalConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `datastore:
  backend: sqlite
  path: data/status.db
forecast:
  horizon: 5
  min_open_days: 25
tags:
  repo: /src/linux
notifications:
  enabled: true
  slack:
    webhook_url: https://hooks.slack.com/services/T/B/X
  stale_days: 4
influx:
  url: http://localhost:8086
  token: secret
metrics:
  textfile: /var/lib/node_exporter/netnext.prom
`)
	cm := NewConfigurationManager(dir)

	cfg, err := cm.LoadGlobalConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Datastore.Backend != models.BackendSQLite {
		t.Errorf("backend = %q", cfg.Datastore.Backend)
	}
	if cfg.Datastore.Path != filepath.Join(dir, "data", "status.db") {
		t.Errorf("datastore path = %q", cfg.Datastore.Path)
	}
	if cfg.Forecast.Horizon != 5 || cfg.Forecast.MinOpenDays != 25 {
		t.Errorf("forecast = %+v", cfg.Forecast)
	}
	if cfg.Tags.Repo != "/src/linux" || cfg.Tags.Pattern != DefaultTagPattern {
		t.Errorf("tags = %+v", cfg.Tags)
	}
	if !cfg.Notifications.Enabled || cfg.Notifications.StaleDays != 4 {
		t.Errorf("notifications = %+v", cfg.Notifications)
	}
	if !cfg.Influx.Enabled() || cfg.Influx.Org != "netnext" {
		t.Errorf("influx = %+v", cfg.Influx)
	}
	if cfg.Metrics.Textfile != "/var/lib/node_exporter/netnext.prom" {
		t.Errorf("metrics textfile = %q", cfg.Metrics.Textfile)
	}
	if err := cm.ValidateConfig(cfg); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "datastore: [unclosed\n")

	_, err := NewConfigurationManager(dir).LoadGlobalConfig()
	if err == nil {
		t.Fatal("expected error for malformed config")
	}
	if !strings.Contains(err.Error(), ConfigFileName) {
		t.Errorf("error should name the config file: %v", err)
	}
}

func TestValidateConfig_CollectsErrors(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())
	cfg := DefaultGlobalConfig()
	cfg.Datastore.Backend = "postgres"
	cfg.Source.URL = "not a url"
	cfg.Forecast.Horizon = -1
	cfg.Tags.Pattern = "("
	cfg.Notifications.Enabled = true
	cfg.Influx.URL = "http://localhost:8086"

	err := cm.ValidateConfig(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{
		"datastore.backend",
		"source.url",
		"forecast.horizon",
		"tags.pattern",
		"webhook_url",
		"influx.token",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestValidateConfig_Nil(t *testing.T) {
	if err := NewConfigurationManager(".").ValidateConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}
