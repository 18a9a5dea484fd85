package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/fazecat/candlescope/Internal/chart"
	"github.com/fazecat/candlescope/Internal/datafeed"
	"github.com/fazecat/candlescope/Internal/logging"
	"github.com/fazecat/candlescope/Internal/utils/config"
	"github.com/fazecat/candlescope/Internal/utils/scanner"
	"github.com/fazecat/candlescope/cmd/api/internal"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../../.env")

	cfg, err := config.LoadConfig()
	if err != nil {
		boot := logging.New(logging.Config{Component: "api"})
		boot.Fatal().Err(err).Msg("load config")
	}

	logger := logging.New(logging.Config{
		Level:      cfg.Logging.Level,
		JSONFormat: cfg.Logging.JSON,
		Component:  "api",
	})

	srv, err := newServer(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.Datafeed.Provider).Msg("init datafeed")
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("provider", cfg.Datafeed.Provider).Msg("starting dashboard server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

func newServer(cfg *config.Config, logger zerolog.Logger) (*http.Server, error) {
	feed, err := datafeed.New(cfg.Datafeed, logger)
	if err != nil {
		return nil, err
	}

	apiServer := &internal.API{
		Scanner:       scanner.New(feed, datafeed.ParamsFromConfig(cfg.Datafeed), cfg.Analysis.Window, logger),
		Renderer:      chart.NewRenderer(),
		Logger:        logger,
		DefaultSymbol: cfg.Analysis.DefaultSymbol,
	}

	return &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      internal.NewRouter(apiServer),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, nil
}
