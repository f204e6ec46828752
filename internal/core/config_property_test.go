package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valter-silva-au/netnext/pkg/models"
	"pgregory.net/rapid"
)

type configValues struct {
	Backend     models.DatastoreBackend
	Path        string
	Horizon     int
	MinOpenDays int
	Timeout     int
	StaleDays   int
}

func genConfigValues(t *rapid.T) configValues {
	return configValues{
		Backend:     rapid.SampledFrom([]models.DatastoreBackend{models.BackendYAML, models.BackendSQLite}).Draw(t, "backend"),
		Path:        rapid.StringMatching(`[a-z]{1,12}\.(csv|db)`).Draw(t, "path"),
		Horizon:     rapid.IntRange(0, 20).Draw(t, "horizon"),
		MinOpenDays: rapid.IntRange(1, 60).Draw(t, "minOpenDays"),
		Timeout:     rapid.IntRange(1, 300).Draw(t, "timeout"),
		StaleDays:   rapid.IntRange(0, 30).Draw(t, "staleDays"),
	}
}

func mustWriteNetnextconfig(t *testing.T, dir string, v configValues) {
	t.Helper()
	content := fmt.Sprintf(`datastore:
  backend: %s
  path: %s
source:
  timeout_seconds: %d
forecast:
  horizon: %d
  min_open_days: %d
notifications:
  stale_days: %d
`, v.Backend, v.Path, v.Timeout, v.Horizon, v.MinOpenDays, v.StaleDays)
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", ConfigFileName, err)
	}
}

// Any valid configuration written to .netnextconfig loads back unchanged and
// passes validation.
func TestPropertyConfigRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := genConfigValues(rt)
		dir := t.TempDir()
		mustWriteNetnextconfig(t, dir, v)

		cm := NewConfigurationManager(dir)
		cfg, err := cm.LoadGlobalConfig()
		if err != nil {
			rt.Fatalf("LoadGlobalConfig: %v", err)
		}
		if cfg.Datastore.Backend != v.Backend {
			rt.Errorf("backend = %q, want %q", cfg.Datastore.Backend, v.Backend)
		}
		if cfg.Datastore.Path != filepath.Join(dir, v.Path) {
			rt.Errorf("path = %q, want it under %s", cfg.Datastore.Path, dir)
		}
		if cfg.Forecast.Horizon != v.Horizon || cfg.Forecast.MinOpenDays != v.MinOpenDays {
			rt.Errorf("forecast = %+v, want %d/%d", cfg.Forecast, v.Horizon, v.MinOpenDays)
		}
		if cfg.Source.TimeoutSeconds != v.Timeout {
			rt.Errorf("timeout = %d, want %d", cfg.Source.TimeoutSeconds, v.Timeout)
		}
		if cfg.Notifications.StaleDays != v.StaleDays {
			rt.Errorf("stale days = %d, want %d", cfg.Notifications.StaleDays, v.StaleDays)
		}
		if err := cm.ValidateConfig(cfg); err != nil {
			rt.Errorf("valid config rejected: %v", err)
		}
	})
}

// Breaking any single field of a valid configuration yields an error naming
// that field.
func TestPropertyConfigValidationNamesField(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cm := NewConfigurationManager(t.TempDir())
		cfg := DefaultGlobalConfig()
		cfg.Datastore.Path = "/var/lib/netnext/status.csv"

		var key string
		switch rapid.IntRange(0, 6).Draw(rt, "field") {
		case 0:
			cfg.Datastore.Backend = models.DatastoreBackend(rapid.SampledFrom([]string{"csv", "postgres", "json", ""}).Draw(rt, "backend"))
			key = "datastore.backend"
		case 1:
			cfg.Source.URL = rapid.SampledFrom([]string{"", "vger.kernel.org", "/net-next.html"}).Draw(rt, "url")
			key = "source.url"
		case 2:
			cfg.Source.TimeoutSeconds = -rapid.IntRange(0, 100).Draw(rt, "timeout")
			key = "source.timeout_seconds"
		case 3:
			cfg.Forecast.Horizon = -rapid.IntRange(1, 100).Draw(rt, "horizon")
			key = "forecast.horizon"
		case 4:
			cfg.Forecast.MinOpenDays = -rapid.IntRange(0, 100).Draw(rt, "minOpenDays")
			key = "forecast.min_open_days"
		case 5:
			cfg.Tags.Pattern = rapid.SampledFrom([]string{"[", "v(", "*x"}).Draw(rt, "pattern")
			key = "tags.pattern"
		case 6:
			cfg.Notifications.Enabled = true
			cfg.Notifications.Slack.WebhookURL = ""
			key = "notifications.slack.webhook_url"
		}

		err := cm.ValidateConfig(cfg)
		if err == nil {
			rt.Fatalf("expected validation error for %s", key)
		}
		if !strings.Contains(err.Error(), key) {
			rt.Errorf("error %q does not name %s", err, key)
		}
	})
}
