// Package config loads runtime configuration for the securematch CLI.
//
// Sources and precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the search API (http://host:port)
//	-t int      request timeout (seconds)
//	-d int      pause before each protocol stage (milliseconds)
//	-color      auto | always | never
//	-l string   log level: debug | info | warn | error
//	-m string   address for the Prometheus metrics listener, empty to disable
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "15s" or integer
// nanoseconds. Keys that are absent keep the value from the previous layer:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "request_timeout": "15s",
//	  "stage_delay": "300ms",
//	  "color": "never",
//	  "log_level": "info",
//	  "metrics_addr": "127.0.0.1:9464"
//	}
package config
