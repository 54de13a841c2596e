package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/securematch/internal/flagx"
	"github.com/dmitrijs2005/securematch/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "zero" so a partial file only overrides
// what it names.
type JsonConfig struct {
	ServerURL      *string         `json:"server_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	StageDelay     *timex.Duration `json:"stage_delay"`
	ColorMode      *string         `json:"color"`
	LogLevel       *string         `json:"log_level"`
	MetricsAddr    *string         `json:"metrics_addr"`
}

// parseJson overlays cfg with values from the file named by -c/-config.
// It panics on read or decode errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc JsonConfig) apply(cfg *Config) {
	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StageDelay != nil {
		cfg.StageDelay = jc.StageDelay.Duration
	}
	if jc.ColorMode != nil {
		cfg.ColorMode = *jc.ColorMode
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.MetricsAddr != nil {
		cfg.MetricsAddr = *jc.MetricsAddr
	}
}
