package models

// DatastoreBackend selects how observations are persisted.
type DatastoreBackend string

const (
	BackendYAML   DatastoreBackend = "yaml"
	BackendSQLite DatastoreBackend = "sqlite"
)

// DatastoreConfig locates the observation datastore.
type DatastoreConfig struct {
	Backend DatastoreBackend `yaml:"backend" mapstructure:"backend"`
	Path    string           `yaml:"path" mapstructure:"path"`
}

// SourceConfig describes the status page that is scraped by "record".
type SourceConfig struct {
	URL            string `yaml:"url" mapstructure:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// ForecastConfig tunes the predictor.
type ForecastConfig struct {
	Horizon     int `yaml:"horizon" mapstructure:"horizon"`
	MinOpenDays int `yaml:"min_open_days" mapstructure:"min_open_days"`
}

// TagsConfig points at a git repository whose release tags label cycles.
type TagsConfig struct {
	Repo    string `yaml:"repo,omitempty" mapstructure:"repo"`
	Pattern string `yaml:"pattern,omitempty" mapstructure:"pattern"`
}

// SlackConfig holds the incoming webhook used for notifications.
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url,omitempty" mapstructure:"webhook_url"`
}

// NotificationConfig controls alerting.
type NotificationConfig struct {
	Enabled   bool        `yaml:"enabled" mapstructure:"enabled"`
	Slack     SlackConfig `yaml:"slack" mapstructure:"slack"`
	StaleDays int         `yaml:"stale_days" mapstructure:"stale_days"`
}

// InfluxConfig enables mirroring observations into InfluxDB when URL and
// Token are both set.
type InfluxConfig struct {
	URL    string `yaml:"url,omitempty" mapstructure:"url"`
	Token  string `yaml:"token,omitempty" mapstructure:"token"`
	Org    string `yaml:"org,omitempty" mapstructure:"org"`
	Bucket string `yaml:"bucket,omitempty" mapstructure:"bucket"`
}

// Enabled reports whether enough settings are present to open a client.
func (c InfluxConfig) Enabled() bool {
	return c.URL != "" && c.Token != ""
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty" mapstructure:"textfile"`
}

// GlobalConfig holds all settings read from .netnextconfig via Viper.
type GlobalConfig struct {
	Datastore     DatastoreConfig    `yaml:"datastore" mapstructure:"datastore"`
	Source        SourceConfig       `yaml:"source" mapstructure:"source"`
	Forecast      ForecastConfig     `yaml:"forecast" mapstructure:"forecast"`
	Tags          TagsConfig         `yaml:"tags" mapstructure:"tags"`
	Notifications NotificationConfig `yaml:"notifications" mapstructure:"notifications"`
	Influx        InfluxConfig       `yaml:"influx" mapstructure:"influx"`
	Metrics       MetricsConfig      `yaml:"metrics" mapstructure:"metrics"`
}
