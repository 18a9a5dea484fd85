package config

import (
	"fmt"
	"io"
)

// DisplayConfiguration prints the active settings.
func DisplayConfiguration(w io.Writer, cfg *Config) {
	fmt.Fprintln(w, "\n📋 Current Configuration:")

	fmt.Fprintln(w, "\n=== Datafeed ===")
	fmt.Fprintf(w, "Provider: %s\n", cfg.Datafeed.Provider)
	fmt.Fprintf(w, "Period: %s | Interval: %s | Missing index: %s\n",
		cfg.Datafeed.Period, cfg.Datafeed.Interval, cfg.Datafeed.MissingIndex)
	fmt.Fprintf(w, "Timeout: %s | Max retries: %d\n", cfg.Datafeed.Timeout, cfg.Datafeed.MaxRetries)
	if cfg.Datafeed.Provider == "alpaca" {
		fmt.Fprintf(w, "Alpaca feed: %s (keys %s)\n", cfg.Datafeed.Alpaca.Feed, enabledStr(cfg.Datafeed.Alpaca.APIKey != ""))
	}

	fmt.Fprintln(w, "\n=== Analysis ===")
	fmt.Fprintf(w, "Trailing window: %d bars\n", cfg.Analysis.Window)
	fmt.Fprintf(w, "Default symbol: %s\n", cfg.Analysis.DefaultSymbol)

	fmt.Fprintln(w, "\n=== Server ===")
	fmt.Fprintf(w, "Listen: %s\n", cfg.Server.Addr)
	fmt.Fprintf(w, "Log level: %s (json %s)\n", cfg.Logging.Level, enabledStr(cfg.Logging.JSON))
}

func enabledStr(b bool) string {
	if b {
		return "✅ set"
	}
	return "❌ unset"
}
