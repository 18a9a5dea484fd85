package datafeed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fazecat/candlescope/Internal/types"
	"github.com/fazecat/candlescope/Internal/utils"
	"github.com/fazecat/candlescope/Internal/utils/config"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrNoData         = errors.New("no price data available")
)

// Fetcher returns a cleaned daily price series for one symbol.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol string, p FetchParams) (*types.Series, error)
}

type FetchParams struct {
	Period       string // lookback, e.g. "3mo"
	Interval     string // bar size, e.g. "1d"
	MissingIndex string // only "drop" is supported
}

func DefaultParams() FetchParams {
	return FetchParams{Period: "3mo", Interval: "1d", MissingIndex: "drop"}
}

// ParamsFromConfig reads the fixed fetch parameters from the datafeed section.
func ParamsFromConfig(cfg config.DatafeedConfig) FetchParams {
	p := DefaultParams()
	if cfg.Period != "" {
		p.Period = cfg.Period
	}
	if cfg.Interval != "" {
		p.Interval = cfg.Interval
	}
	if cfg.MissingIndex != "" {
		p.MissingIndex = cfg.MissingIndex
	}
	return p
}

// New builds the provider named in cfg.
func New(cfg config.DatafeedConfig, logger zerolog.Logger) (Fetcher, error) {
	retry := utils.DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries

	switch cfg.Provider {
	case "", "yahoo":
		return NewYahooFeed(cfg, retry, logger), nil
	case "alpaca":
		return NewAlpacaFeed(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown datafeed provider %q", cfg.Provider)
	}
}

// Clean enforces the series invariants: only complete bars, strictly
// increasing dates, one bar per date (the last one seen wins).
func Clean(s *types.Series) *types.Series {
	if s == nil {
		return &types.Series{}
	}

	bars := make([]types.Bar, 0, len(s.Bars))
	for _, b := range s.Bars {
		if b.Complete() {
			bars = append(bars, b)
		}
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })

	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Date == b.Date {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return &types.Series{Symbol: s.Symbol, Bars: out}
}

// PeriodStart converts a lookback such as "5d", "2wk", "3mo", "1y" or "ytd"
// into the first instant to request.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	period = strings.ToLower(strings.TrimSpace(period))
	if period == "ytd" {
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), nil
	}

	for _, unit := range []string{"wk", "mo", "d", "y"} {
		if !strings.HasSuffix(period, unit) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(period, unit))
		if err != nil || n <= 0 {
			return time.Time{}, fmt.Errorf("invalid period %q", period)
		}
		switch unit {
		case "d":
			return now.AddDate(0, 0, -n), nil
		case "wk":
			return now.AddDate(0, 0, -7*n), nil
		case "mo":
			return now.AddDate(0, -n, 0), nil
		case "y":
			return now.AddDate(-n, 0, 0), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid period %q", period)
}

// roundPrice strips binary float noise from provider prices.
func roundPrice(v float64) float64 {
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}
