package config

import "time"

// Config holds runtime settings for the member portal CLI.
//
// Fields:
//   - BaseURL: scheme and host of the portal API.
//   - RoutePrefix: path segment every API route sits under.
//   - StorePath: SQLite file holding the session; empty keeps the session
//     in memory for the life of the process.
//   - LogoutTimeout: upper bound for the server call made on logout.
//   - LogLevel, LogFormat: passed to logging.New.
type Config struct {
	BaseURL       string
	RoutePrefix   string
	StorePath     string
	LogoutTimeout time.Duration
	LogLevel      string
	LogFormat     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:3000"
	c.RoutePrefix = "api"
	c.StorePath = "portal.db"
	c.LogoutTimeout = 5 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
