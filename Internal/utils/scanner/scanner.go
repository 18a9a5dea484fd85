package scanner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fazecat/candlescope/Internal/datafeed"
	"github.com/fazecat/candlescope/Internal/logging"
	"github.com/fazecat/candlescope/Internal/strategy/detection"
	"github.com/fazecat/candlescope/Internal/types"
	"github.com/fazecat/candlescope/Internal/utils/analyzer"
)

var ErrEmptySymbol = errors.New("symbol is required")

// Scanner runs one fetch, evaluate and aggregate cycle per request. It holds
// no state between calls.
type Scanner struct {
	Feed      datafeed.Fetcher
	Detectors []detection.Detector
	Window    int
	Params    datafeed.FetchParams

	logger zerolog.Logger
}

type Result struct {
	Series  *types.Series
	Report  analyzer.Report
	Elapsed time.Duration
}

func New(feed datafeed.Fetcher, params datafeed.FetchParams, window int, logger zerolog.Logger) *Scanner {
	if window <= 0 {
		window = analyzer.DefaultWindow
	}
	return &Scanner{
		Feed:      feed,
		Detectors: detection.Patterns,
		Window:    window,
		Params:    params,
		logger:    logging.Component(logger, "scanner"),
	}
}

// Fetch loads the cleaned price series for symbol without evaluating it.
func (s *Scanner) Fetch(ctx context.Context, symbol string) (*types.Series, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, ErrEmptySymbol
	}

	series, err := s.Feed.FetchBars(ctx, symbol, s.Params)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("fetch failed")
		return nil, fmt.Errorf("scan %s: %w", symbol, err)
	}
	return series, nil
}

func (s *Scanner) Scan(ctx context.Context, symbol string) (*Result, error) {
	symbol = strings.TrimSpace(symbol)

	start := time.Now()
	series, err := s.Fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}

	results := analyzer.Evaluate(series, s.Detectors, s.Window)
	for _, res := range results {
		if res.Err != nil {
			s.logger.Warn().Err(res.Err).Str("symbol", symbol).Str("pattern", res.Pattern).Msg("detector skipped")
		}
	}

	report := analyzer.Aggregate(symbol, results)
	elapsed := time.Since(start)

	s.logger.Debug().
		Str("symbol", symbol).
		Int("bars", series.Len()).
		Int("matches", len(report.Matches)).
		Dur("elapsed", elapsed).
		Msg("scan complete")

	return &Result{Series: series, Report: report, Elapsed: elapsed}, nil
}
