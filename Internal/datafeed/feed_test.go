package datafeed

import (
	"math"
	"testing"
	"time"

	"github.com/fazecat/candlescope/Internal/types"
	"github.com/fazecat/candlescope/Internal/utils/config"
	"github.com/rs/zerolog"
)

func TestClean(t *testing.T) {
	in := &types.Series{Symbol: "2330.TW", Bars: []types.Bar{
		{Date: "2024-06-05", Open: 3, High: 4, Low: 2, Close: 3, Volume: 10},
		{Date: "2024-06-03", Open: 1, High: 2, Low: 1, Close: 2, Volume: 10},
		{Date: "2024-06-04", Open: math.NaN(), High: 2, Low: 1, Close: 2, Volume: 10},
		{Date: "2024-06-05", Open: 5, High: 6, Low: 4, Close: 5, Volume: 20},
		{Date: "", Open: 1, High: 1, Low: 1, Close: 1},
		{Date: "2024-06-06", Open: 1, High: 1, Low: 0, Close: 1},
		{Date: "2024-06-07", Open: 1, High: 1, Low: 1, Close: 1, Volume: -1},
	}}

	got := Clean(in)

	if got.Symbol != "2330.TW" {
		t.Errorf("symbol = %q", got.Symbol)
	}
	wantDates := []string{"2024-06-03", "2024-06-05"}
	if got.Len() != len(wantDates) {
		t.Fatalf("len = %d, want %d (%v)", got.Len(), len(wantDates), got.Dates())
	}
	for i, d := range wantDates {
		if got.Bars[i].Date != d {
			t.Errorf("bar %d date = %s, want %s", i, got.Bars[i].Date, d)
		}
	}
	if got.Bars[1].Close != 5 {
		t.Errorf("duplicate date should keep the last bar, got close %v", got.Bars[1].Close)
	}
}

func TestClean_Nil(t *testing.T) {
	if got := Clean(nil); got.Len() != 0 {
		t.Errorf("Clean(nil) len = %d, want 0", got.Len())
	}
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period  string
		want    time.Time
		wantErr bool
	}{
		{period: "3mo", want: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)},
		{period: "5d", want: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)},
		{period: "2wk", want: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		{period: "1y", want: time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)},
		{period: "ytd", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{period: "0mo", wantErr: true},
		{period: "forever", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			got, err := PeriodStart(tt.period, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("PeriodStart(%q) = %v, want %v", tt.period, got, tt.want)
			}
		})
	}
}

func TestParamsFromConfig(t *testing.T) {
	if got := ParamsFromConfig(config.DatafeedConfig{}); got != DefaultParams() {
		t.Errorf("empty config = %+v, want defaults", got)
	}
	got := ParamsFromConfig(config.DatafeedConfig{Period: "6mo", Interval: "1wk"})
	if got.Period != "6mo" || got.Interval != "1wk" || got.MissingIndex != "drop" {
		t.Errorf("ParamsFromConfig = %+v", got)
	}
}

func TestNew(t *testing.T) {
	cfg := config.Default().Datafeed

	f, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New(yahoo) error = %v", err)
	}
	if _, ok := f.(*YahooFeed); !ok {
		t.Errorf("New(yahoo) = %T, want *YahooFeed", f)
	}

	cfg.Provider = "alpaca"
	if _, err := New(cfg, zerolog.Nop()); err == nil {
		t.Error("New(alpaca) without keys should fail")
	}

	cfg.Provider = "quandl"
	if _, err := New(cfg, zerolog.Nop()); err == nil {
		t.Error("New(unknown) should fail")
	}
}

func TestRoundPrice(t *testing.T) {
	if got := roundPrice(585.0000610351562); got != 585.0001 {
		t.Errorf("roundPrice = %v, want 585.0001", got)
	}
}
