package datafeed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/fazecat/candlescope/Internal/types"
	"github.com/fazecat/candlescope/Internal/utils/config"
	"github.com/rs/zerolog"
)

// barsClient is the slice of the Alpaca market data client the feed needs.
type barsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaFeed reads daily US equity bars from Alpaca market data.
type AlpacaFeed struct {
	client barsClient
	loc    *time.Location
	now    func() time.Time
	logger zerolog.Logger
}

func NewAlpacaFeed(cfg config.DatafeedConfig, logger zerolog.Logger) (*AlpacaFeed, error) {
	if cfg.Alpaca.APIKey == "" || cfg.Alpaca.APISecret == "" {
		return nil, fmt.Errorf("ALPACA_API_KEY or ALPACA_API_SECRET not set")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:     cfg.Alpaca.APIKey,
		APISecret:  cfg.Alpaca.APISecret,
		Feed:       marketdata.Feed(cfg.Alpaca.Feed),
		RetryLimit: cfg.MaxRetries,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	return newAlpacaFeed(client, logger), nil
}

func newAlpacaFeed(client barsClient, logger zerolog.Logger) *AlpacaFeed {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return &AlpacaFeed{
		client: client,
		loc:    loc,
		now:    time.Now,
		logger: logger.With().Str("component", "alpaca").Logger(),
	}
}

func (a *AlpacaFeed) FetchBars(ctx context.Context, symbol string, p FetchParams) (*types.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := a.now().In(a.loc)
	start, err := PeriodStart(p.Period, now)
	if err != nil {
		return nil, err
	}
	tf, err := alpacaTimeFrame(p.Interval)
	if err != nil {
		return nil, err
	}

	raw, err := a.client.GetBars(strings.ToUpper(symbol), marketdata.GetBarsRequest{
		TimeFrame:  tf,
		Adjustment: marketdata.Split,
		Start:      start,
		End:        now,
	})
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "invalid symbol") || strings.Contains(msg, "not found") {
			return nil, fmt.Errorf("%s: %w", symbol, ErrSymbolNotFound)
		}
		a.logger.Warn().Err(err).Str("symbol", symbol).Msg("bars request failed")
		return nil, fmt.Errorf("alpaca bars for %s: %w", symbol, err)
	}

	bars := make([]types.Bar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, types.Bar{
			Date:   b.Timestamp.In(a.loc).Format("2006-01-02"),
			Open:   roundPrice(b.Open),
			High:   roundPrice(b.High),
			Low:    roundPrice(b.Low),
			Close:  roundPrice(b.Close),
			Volume: int64(b.Volume),
		})
	}

	series := Clean(&types.Series{Symbol: symbol, Bars: bars})
	if series.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}
	return series, nil
}

func alpacaTimeFrame(interval string) (marketdata.TimeFrame, error) {
	switch interval {
	case "", "1d":
		return marketdata.OneDay, nil
	case "1wk":
		return marketdata.NewTimeFrame(1, marketdata.Week), nil
	case "1mo":
		return marketdata.NewTimeFrame(1, marketdata.Month), nil
	default:
		return marketdata.TimeFrame{}, fmt.Errorf("unsupported interval %q", interval)
	}
}
