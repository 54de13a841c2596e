package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://10.0.0.5:8000", "-t", "30", "-d", "250", "-color", "never", "-l", "debug", "-m", ":9464"},
			expected: &Config{
				ServerURL:      "http://10.0.0.5:8000",
				RequestTimeout: 30 * time.Second,
				StageDelay:     250 * time.Millisecond,
				ColorMode:      ColorNever,
				LogLevel:       "debug",
				MetricsAddr:    ":9464",
			},
		},
		{
			name: "foreign flags ignored",
			args: []string{"-c", "x.json", "-z", "-a", "http://h:1"},
			expected: func() *Config {
				c := base()
				c.ServerURL = "http://h:1"
				return c
			}(),
		},
		{name: "timeout not a number", args: []string{"-t", "abc"}, expectPanic: true},
		{name: "zero timeout", args: []string{"-t", "0"}, expectPanic: true},
		{name: "negative delay", args: []string{"-d=-5"}, expectPanic: true},
		{name: "unknown color", args: []string{"-color", "rainbow"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withArgs(t, tt.args...)
			cfg := base()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
