package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	types "github.com/ncwatch/ncwatch-backend/internal/domain"
)

// SourceConfig is the per-source table: where to fetch, how often,
// and how long snapshot rows live. Endpoints are ordered; adapters
// that union multiple providers list one endpoint per provider, the
// WARN adapter tries them as CSV candidates in priority order.
type SourceConfig struct {
	Enabled       *bool    `yaml:"enabled"`
	Schedule      string   `yaml:"schedule"`
	Endpoints     []string `yaml:"endpoints"`
	FallbackCSV   string   `yaml:"fallback_csv"`
	FetchLimit    int      `yaml:"fetch_limit"`
	RetentionDays int      `yaml:"retention_days"`
}

// IsEnabled treats an unset flag as enabled, so an overlay that only
// changes a schedule does not silently turn the source off.
func (s SourceConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

type QueueConfig struct {
	CleanSchedule  string `yaml:"clean_schedule"`
	RetentionHours int    `yaml:"retention_hours"`
	CleanLimit     int    `yaml:"clean_limit"`
}

type Config struct {
	UserAgent           string                  `yaml:"user_agent"`
	FetchTimeoutSeconds int                     `yaml:"fetch_timeout_seconds"`
	JobTimeoutSeconds   int                     `yaml:"job_timeout_seconds"`
	Queue               QueueConfig             `yaml:"queue"`
	Sources             map[string]SourceConfig `yaml:"sources"`
}

// Default returns the built-in source table. Schedules follow each
// provider's real update cadence; remote jobs stay at four calls a
// day per the provider's guidance.
func Default() *Config {
	return &Config{
		UserAgent:           "ncwatch/1.0 (public data aggregator)",
		FetchTimeoutSeconds: 30,
		JobTimeoutSeconds:   600,
		Queue: QueueConfig{
			CleanSchedule:  "30 * * * *",
			RetentionHours: 24,
			CleanLimit:     100,
		},
		Sources: map[string]SourceConfig{
			types.SourceWarn: {
				Schedule: "0 6 * * *",
				Endpoints: []string{
					"https://www.commerce.nc.gov/data/warn-notices/warn-notices.csv",
					"https://www.commerce.nc.gov/data/warn-notices/export/csv",
					"https://www.commerce.nc.gov/data/warn-notices",
				},
				FallbackCSV: "/app/data/nc-warn-manual.csv",
			},
			types.SourceWeather: {
				Schedule:  "*/5 * * * *",
				Endpoints: []string{"https://api.weather.gov/alerts/active?area=NC"},
			},
			types.SourceOutages: {
				Schedule: "*/10 * * * *",
				Endpoints: []string{
					"https://outagemap.duke-energy.com/ncsc/api/v1/outages?state=NC",
					"https://outagemap.dominionenergy.com/api/v1/outages?state=NC",
				},
				RetentionDays: 7,
			},
			types.SourceRecalls: {
				Schedule: "0 7 * * *",
				Endpoints: []string{
					"https://api.nhtsa.gov/recalls/recallsByYear",
					"https://www.saferproducts.gov/RestWebServices/Recall",
					"https://api.fda.gov/food/enforcement.json",
				},
				FetchLimit: 100,
			},
			types.SourceScams: {
				Schedule:  "0 * * * *",
				Endpoints: []string{"https://www.ncdoj.gov/feed/"},
			},
			types.SourceRemoteJobs: {
				Schedule:      "0 0,6,12,18 * * *",
				Endpoints:     []string{"https://remotive.com/api/remote-jobs"},
				FetchLimit:    500,
				RetentionDays: 30,
			},
			types.SourceAmber: {
				Schedule:  "*/15 * * * *",
				Endpoints: []string{"https://www.missingkids.org/missingkids/servlet/RSSServlet"},
			},
		},
	}
}

// Load reads a YAML config and overlays it on the defaults, so a file
// only needs to name what it changes. A missing path returns the
// defaults untouched.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var overlay Config
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.merge(&overlay)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) merge(o *Config) {
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.FetchTimeoutSeconds > 0 {
		c.FetchTimeoutSeconds = o.FetchTimeoutSeconds
	}
	if o.JobTimeoutSeconds > 0 {
		c.JobTimeoutSeconds = o.JobTimeoutSeconds
	}
	if o.Queue.CleanSchedule != "" {
		c.Queue.CleanSchedule = o.Queue.CleanSchedule
	}
	if o.Queue.RetentionHours > 0 {
		c.Queue.RetentionHours = o.Queue.RetentionHours
	}
	if o.Queue.CleanLimit > 0 {
		c.Queue.CleanLimit = o.Queue.CleanLimit
	}
	for name, sc := range o.Sources {
		base, ok := c.Sources[name]
		if !ok {
			c.Sources[name] = sc
			continue
		}
		if sc.Enabled != nil {
			base.Enabled = sc.Enabled
		}
		if sc.Schedule != "" {
			base.Schedule = sc.Schedule
		}
		if len(sc.Endpoints) > 0 {
			base.Endpoints = sc.Endpoints
		}
		if sc.FallbackCSV != "" {
			base.FallbackCSV = sc.FallbackCSV
		}
		if sc.FetchLimit > 0 {
			base.FetchLimit = sc.FetchLimit
		}
		if sc.RetentionDays > 0 {
			base.RetentionDays = sc.RetentionDays
		}
		c.Sources[name] = base
	}
}

func (c *Config) validate() error {
	for name := range c.Sources {
		if !types.ValidSource(name) {
			return fmt.Errorf("config: unknown source %q", name)
		}
	}
	return nil
}

// Source returns the config block for a source kind.
func (c *Config) Source(name string) SourceConfig {
	return c.Sources[name]
}
