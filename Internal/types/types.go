package types

import "math"

// Bar is one trading period. Date is the trading date in the exchange's
// time zone, formatted YYYY-MM-DD.
type Bar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Complete reports whether every field of the bar is present and usable.
func (b Bar) Complete() bool {
	if b.Date == "" || b.Volume < 0 {
		return false
	}
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}
	return true
}

// Series is an ordered run of bars for one symbol, oldest first.
type Series struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

func (s *Series) Dates() []string {
	out := make([]string, s.Len())
	for i := range out {
		out[i] = s.Bars[i].Date
	}
	return out
}

func (s *Series) Opens() []float64  { return s.column(func(b Bar) float64 { return b.Open }) }
func (s *Series) Highs() []float64  { return s.column(func(b Bar) float64 { return b.High }) }
func (s *Series) Lows() []float64   { return s.column(func(b Bar) float64 { return b.Low }) }
func (s *Series) Closes() []float64 { return s.column(func(b Bar) float64 { return b.Close }) }

func (s *Series) Volumes() []int64 {
	out := make([]int64, s.Len())
	for i := range out {
		out[i] = s.Bars[i].Volume
	}
	return out
}

func (s *Series) column(pick func(Bar) float64) []float64 {
	out := make([]float64, s.Len())
	for i := range out {
		out[i] = pick(s.Bars[i])
	}
	return out
}

// Signal is the per-bar output of a pattern detector.
type Signal int

const (
	SignalBearish Signal = -100
	SignalNone    Signal = 0
	SignalBullish Signal = 100
)

type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
)

// Direction classifies a confirmed signal by its sign. Only full-strength
// signals classify; weaker values and zero return false.
func (s Signal) Direction() (Direction, bool) {
	switch s {
	case SignalBullish:
		return DirectionBullish, true
	case SignalBearish:
		return DirectionBearish, true
	}
	return "", false
}
