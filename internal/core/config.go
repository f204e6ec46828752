// Package core contains the merge-window engine: timeline compaction, cycle
// segmentation, trailing-average prediction, live adjustment of the nearest
// forecast, release version alignment, and the configuration that drives them.
package core

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/netnext/pkg/models"
)

// ConfigFileName is the name of the YAML configuration file looked up in the
// base path.
const ConfigFileName = ".netnextconfig"

// DefaultSourceURL is the net-next status page.
const DefaultSourceURL = "http://vger.kernel.org/~davem/net-next.html"

// DefaultTagPattern matches mainline release tags such as v6.1.
const DefaultTagPattern = `^v\d+\.\d+$`

// ConfigurationManager loads and validates the global configuration.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for reading
// the YAML configuration file.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// .netnextconfig from basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns the configuration used when no file exists.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		Datastore: models.DatastoreConfig{
			Backend: models.BackendYAML,
			Path:    "status.csv",
		},
		Source: models.SourceConfig{
			URL:            DefaultSourceURL,
			TimeoutSeconds: 30,
		},
		Forecast: models.ForecastConfig{
			Horizon:     DefaultHorizon,
			MinOpenDays: DefaultMinOpenDays,
		},
		Tags: models.TagsConfig{
			Pattern: DefaultTagPattern,
		},
		Notifications: models.NotificationConfig{
			StaleDays: 2,
		},
		Influx: models.InfluxConfig{
			Org:    "netnext",
			Bucket: "netnext",
		},
	}
}

// LoadGlobalConfig reads .netnextconfig from the base path. If the file does
// not exist, defaults are returned. NETNEXT_* environment variables override
// file values (e.g. NETNEXT_INFLUX_TOKEN).
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)
	v.SetEnvPrefix("NETNEXT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("datastore.backend", string(cfg.Datastore.Backend))
	v.SetDefault("datastore.path", cfg.Datastore.Path)
	v.SetDefault("source.url", cfg.Source.URL)
	v.SetDefault("source.timeout_seconds", cfg.Source.TimeoutSeconds)
	v.SetDefault("forecast.horizon", cfg.Forecast.Horizon)
	v.SetDefault("forecast.min_open_days", cfg.Forecast.MinOpenDays)
	v.SetDefault("tags.repo", cfg.Tags.Repo)
	v.SetDefault("tags.pattern", cfg.Tags.Pattern)
	v.SetDefault("notifications.enabled", cfg.Notifications.Enabled)
	v.SetDefault("notifications.slack.webhook_url", cfg.Notifications.Slack.WebhookURL)
	v.SetDefault("notifications.stale_days", cfg.Notifications.StaleDays)
	v.SetDefault("influx.url", cfg.Influx.URL)
	v.SetDefault("influx.token", cfg.Influx.Token)
	v.SetDefault("influx.org", cfg.Influx.Org)
	v.SetDefault("influx.bucket", cfg.Influx.Bucket)
	v.SetDefault("metrics.textfile", cfg.Metrics.Textfile)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
		}
	}

	cfg.Datastore.Backend = models.DatastoreBackend(v.GetString("datastore.backend"))
	cfg.Datastore.Path = cm.resolvePath(v.GetString("datastore.path"))
	cfg.Source.URL = v.GetString("source.url")
	cfg.Source.TimeoutSeconds = v.GetInt("source.timeout_seconds")
	cfg.Forecast.Horizon = v.GetInt("forecast.horizon")
	cfg.Forecast.MinOpenDays = v.GetInt("forecast.min_open_days")
	cfg.Tags.Repo = v.GetString("tags.repo")
	if cfg.Tags.Repo != "" {
		cfg.Tags.Repo = cm.resolvePath(cfg.Tags.Repo)
	}
	cfg.Tags.Pattern = v.GetString("tags.pattern")
	cfg.Notifications.Enabled = v.GetBool("notifications.enabled")
	cfg.Notifications.Slack.WebhookURL = v.GetString("notifications.slack.webhook_url")
	cfg.Notifications.StaleDays = v.GetInt("notifications.stale_days")
	cfg.Influx.URL = v.GetString("influx.url")
	cfg.Influx.Token = v.GetString("influx.token")
	cfg.Influx.Org = v.GetString("influx.org")
	cfg.Influx.Bucket = v.GetString("influx.bucket")
	cfg.Metrics.Textfile = v.GetString("metrics.textfile")
	if cfg.Metrics.Textfile != "" {
		cfg.Metrics.Textfile = cm.resolvePath(cfg.Metrics.Textfile)
	}

	return cfg, nil
}

// resolvePath expands a leading ~ and makes relative paths relative to the
// base path.
func (cm *viperConfigManager) resolvePath(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(cm.basePath, p)
	}
	return p
}

// ValidateConfig checks the configuration for invalid values and reports
// every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	switch cfg.Datastore.Backend {
	case models.BackendYAML, models.BackendSQLite:
	default:
		errs = append(errs, fmt.Sprintf(
			"datastore.backend %q is invalid, must be one of: yaml, sqlite",
			cfg.Datastore.Backend,
		))
	}

	if cfg.Datastore.Path == "" {
		errs = append(errs, "datastore.path must not be empty")
	}

	if u, err := url.Parse(cfg.Source.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("source.url %q is not an absolute URL", cfg.Source.URL))
	}

	if cfg.Source.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Sprintf("source.timeout_seconds must be positive, got %d", cfg.Source.TimeoutSeconds))
	}

	if cfg.Forecast.Horizon < 0 {
		errs = append(errs, fmt.Sprintf("forecast.horizon must be non-negative, got %d", cfg.Forecast.Horizon))
	}

	if cfg.Forecast.MinOpenDays <= 0 {
		errs = append(errs, fmt.Sprintf("forecast.min_open_days must be positive, got %d", cfg.Forecast.MinOpenDays))
	}

	if cfg.Tags.Pattern != "" {
		if _, err := regexp.Compile(cfg.Tags.Pattern); err != nil {
			errs = append(errs, fmt.Sprintf("tags.pattern %q does not compile: %v", cfg.Tags.Pattern, err))
		}
	}

	if cfg.Notifications.Enabled && cfg.Notifications.Slack.WebhookURL == "" {
		errs = append(errs, "notifications.slack.webhook_url is required when notifications are enabled")
	}

	if cfg.Notifications.StaleDays < 0 {
		errs = append(errs, fmt.Sprintf("notifications.stale_days must be non-negative, got %d", cfg.Notifications.StaleDays))
	}

	if cfg.Influx.URL != "" && cfg.Influx.Token == "" {
		errs = append(errs, "influx.token is required when influx.url is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
