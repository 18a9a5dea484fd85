package interactive

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fazecat/candlescope/Internal/datafeed"
	"github.com/fazecat/candlescope/Internal/types"
	"github.com/fazecat/candlescope/Internal/utils/config"
	"github.com/fazecat/candlescope/Internal/utils/scanner"
)

type fixedFeed struct{ n int }

func (f fixedFeed) FetchBars(ctx context.Context, symbol string, p datafeed.FetchParams) (*types.Series, error) {
	if symbol == "NOPE" {
		return nil, datafeed.ErrSymbolNotFound
	}
	s := &types.Series{Symbol: symbol}
	for i := 0; i < f.n; i++ {
		s.Bars = append(s.Bars, types.Bar{Date: fmt.Sprintf("2024-06-%02d", i+1), Open: 100, High: 101.5, Low: 99.5, Close: 101, Volume: 42})
	}
	return s, nil
}

func newSession(input string) (*Session, *bytes.Buffer) {
	cfg := config.Default()
	out := &bytes.Buffer{}
	return &Session{
		Scanner: scanner.New(fixedFeed{n: 20}, datafeed.DefaultParams(), cfg.Analysis.Window, zerolog.Nop()),
		Config:  cfg,
		In:      strings.NewReader(input),
		Out:     out,
	}, out
}

func TestRun_AnalyzeDefaultSymbol(t *testing.T) {
	s, out := newSession("1\n\n4\n")
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"2330.TW 沒有明顯趨勢", "2024-06-20 Thu", "Goodbye!", "last 7 of 20 bars"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(got, "2024-06-13 ") {
		t.Error("bars outside the window were printed")
	}
}

func TestRun_ErrorsAndInvalidChoice(t *testing.T) {
	s, out := newSession("9\n1\nNOPE\n2\n")
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{"Invalid choice", "[ERROR]", "symbol not found", "CDLEVENINGDOJISTAR"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
