package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/fazecat/candlescope/Internal/datafeed"
	"github.com/fazecat/candlescope/Internal/logging"
	"github.com/fazecat/candlescope/Internal/utils/config"
	"github.com/fazecat/candlescope/Internal/utils/scanner"
	"github.com/fazecat/candlescope/interactive"
)

func main() {
	symbol := flag.String("symbol", "", "print the pattern report for one symbol and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:      cfg.Logging.Level,
		JSONFormat: cfg.Logging.JSON,
		Component:  "cli",
	})

	feed, err := datafeed.New(cfg.Datafeed, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init datafeed")
	}

	session := &interactive.Session{
		Scanner: scanner.New(feed, datafeed.ParamsFromConfig(cfg.Datafeed), cfg.Analysis.Window, logger),
		Config:  cfg,
		In:      os.Stdin,
		Out:     os.Stdout,
	}

	ctx := context.Background()
	if *symbol != "" {
		if err := session.Analyze(ctx, *symbol); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", *symbol, err)
			os.Exit(1)
		}
		return
	}

	if err := session.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("read input")
	}
}
