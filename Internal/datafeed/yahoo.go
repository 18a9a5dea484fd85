package datafeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fazecat/candlescope/Internal/logging"
	"github.com/fazecat/candlescope/Internal/types"
	"github.com/fazecat/candlescope/Internal/utils"
	"github.com/fazecat/candlescope/Internal/utils/config"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const maxChartBody = 8 << 20

// YahooFeed reads daily bars from the Yahoo Finance v8 chart endpoint.
type YahooFeed struct {
	baseURL   string
	userAgent string
	client    *http.Client
	retry     utils.RetryConfig
	logger    zerolog.Logger
}

func NewYahooFeed(cfg config.DatafeedConfig, retry utils.RetryConfig, logger zerolog.Logger) *YahooFeed {
	base := strings.TrimRight(cfg.Yahoo.BaseURL, "/")
	if base == "" {
		base = "https://query1.finance.yahoo.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &YahooFeed{
		baseURL:   base,
		userAgent: cfg.Yahoo.UserAgent,
		client:    &http.Client{Timeout: timeout},
		retry:     retry,
		logger:    logging.Component(logger, "yahoo"),
	}
}

func (y *YahooFeed) FetchBars(ctx context.Context, symbol string, p FetchParams) (*types.Series, error) {
	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s&events=history&includePrePost=false",
		y.baseURL, url.PathEscape(symbol), url.QueryEscape(p.Period), url.QueryEscape(p.Interval))

	var body []byte
	attempt := 0
	err := utils.RetryWithBackoff(ctx, func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return utils.Permanent(err)
		}
		if y.userAgent != "" {
			req.Header.Set("User-Agent", y.userAgent)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := y.client.Do(req)
		if err != nil {
			y.logger.Warn().Err(err).Str("symbol", symbol).Int("attempt", attempt).Msg("chart request failed")
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxChartBody))
		if err != nil {
			return err
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			body = data
			return nil
		case resp.StatusCode == http.StatusNotFound:
			return utils.Permanent(fmt.Errorf("%s: %w", symbol, ErrSymbolNotFound))
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			y.logger.Warn().Int("status", resp.StatusCode).Str("symbol", symbol).Int("attempt", attempt).Msg("chart request throttled or unavailable")
			return fmt.Errorf("yahoo chart returned status %d", resp.StatusCode)
		default:
			return utils.Permanent(fmt.Errorf("yahoo chart returned status %d: %s", resp.StatusCode, chartError(data)))
		}
	}, y.retry)
	if err != nil {
		return nil, err
	}

	series, err := parseChart(symbol, body)
	if err != nil {
		return nil, err
	}
	y.logger.Debug().Str("symbol", symbol).Int("bars", series.Len()).Msg("chart fetched")
	return series, nil
}

// parseChart turns a v8 chart payload into a cleaned series. Rows with a
// null in any of the five fields are dropped.
func parseChart(symbol string, body []byte) (*types.Series, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("yahoo chart for %s: invalid JSON", symbol)
	}

	chart := gjson.GetBytes(body, "chart")
	if e := chart.Get("error"); e.Exists() && e.Type != gjson.Null {
		if strings.EqualFold(e.Get("code").String(), "Not Found") {
			return nil, fmt.Errorf("%s: %w", symbol, ErrSymbolNotFound)
		}
		return nil, fmt.Errorf("yahoo chart for %s: %s", symbol, chartError(body))
	}

	result := chart.Get("result.0")
	if !result.Exists() {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	loc := exchangeLocation(result.Get("meta"))
	timestamps := result.Get("timestamp").Array()
	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	bars := make([]types.Bar, 0, len(timestamps))
	for i, ts := range timestamps {
		o, ok1 := numberAt(opens, i)
		h, ok2 := numberAt(highs, i)
		l, ok3 := numberAt(lows, i)
		c, ok4 := numberAt(closes, i)
		v, ok5 := numberAt(volumes, i)
		if !(ok1 && ok2 && ok3 && ok4 && ok5) {
			continue
		}
		bars = append(bars, types.Bar{
			Date:   time.Unix(ts.Int(), 0).In(loc).Format("2006-01-02"),
			Open:   roundPrice(o.Float()),
			High:   roundPrice(h.Float()),
			Low:    roundPrice(l.Float()),
			Close:  roundPrice(c.Float()),
			Volume: v.Int(),
		})
	}

	series := Clean(&types.Series{Symbol: symbol, Bars: bars})
	if series.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}
	return series, nil
}

func numberAt(values []gjson.Result, i int) (gjson.Result, bool) {
	if i >= len(values) || values[i].Type != gjson.Number {
		return gjson.Result{}, false
	}
	return values[i], true
}

func exchangeLocation(meta gjson.Result) *time.Location {
	if name := meta.Get("exchangeTimezoneName").String(); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if off := meta.Get("gmtoffset"); off.Exists() {
		return time.FixedZone(meta.Get("timezone").String(), int(off.Int()))
	}
	return time.UTC
}

func chartError(body []byte) string {
	desc := gjson.GetBytes(body, "chart.error.description").String()
	if desc == "" {
		desc = gjson.GetBytes(body, "finance.error.description").String()
	}
	if desc == "" {
		return "unknown error"
	}
	return desc
}
