package config

import "time"

// Config holds runtime settings for the securematch CLI.
//
// RequestTimeout bounds a single HTTP exchange. StageDelay is an optional
// pause inserted before each protocol stage so the progress log can be
// followed on screen; zero disables it.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	StageDelay     time.Duration
	ColorMode      string
	LogLevel       string
	MetricsAddr    string
}

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 15 * time.Second
	c.StageDelay = 0
	c.ColorMode = ColorAuto
	c.LogLevel = "warn"
	c.MetricsAddr = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
