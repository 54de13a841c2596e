package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/securematch/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Only the
// flags handled here are picked out of os.Args, so other consumers of the
// command line do not interfere. Panics on malformed values.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], "a", "t", "d", "color", "l", "m")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the search API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	delay := fs.Int("d", int(cfg.StageDelay.Milliseconds()), "pause before each protocol stage (in milliseconds)")
	fs.StringVar(&cfg.ColorMode, "color", cfg.ColorMode, "auto, always or never")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listener address")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *timeout <= 0 {
		panic(fmt.Sprintf("request timeout must be positive, got %d", *timeout))
	}
	if *delay < 0 {
		panic(fmt.Sprintf("stage delay must not be negative, got %d", *delay))
	}
	switch cfg.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		panic(fmt.Sprintf("unknown color mode %q", cfg.ColorMode))
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.StageDelay = time.Duration(*delay) * time.Millisecond
}
