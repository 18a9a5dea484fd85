package detection

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

// rangeType selects which part of a candle a setting measures.
type rangeType int

const (
	rangeRealBody rangeType = iota
	rangeHighLow
	rangeShadows
)

// candleSetting mirrors the TA-Lib defaults: a candle feature is "long",
// "short", "near" etc. when compared against factor times the average of
// rangeType over the previous period bars. A zero period compares against
// the bar's own range.
type candleSetting struct {
	rangeType rangeType
	period    int
	factor    float64
}

var (
	bodyLong        = candleSetting{rangeRealBody, 10, 1.0}
	bodyShort       = candleSetting{rangeRealBody, 10, 1.0}
	bodyDoji        = candleSetting{rangeHighLow, 10, 0.1}
	shadowLong      = candleSetting{rangeRealBody, 0, 1.0}
	shadowVeryShort = candleSetting{rangeHighLow, 10, 0.1}
	near            = candleSetting{rangeHighLow, 5, 0.2}
	far             = candleSetting{rangeHighLow, 5, 0.6}
)

type candles struct {
	open, high, low, close []float64
	n                      int
}

func newCandles(open, high, low, close []float64) candles {
	n := len(open)
	for _, s := range [][]float64{high, low, close} {
		if len(s) < n {
			n = len(s)
		}
	}
	return candles{open: open, high: high, low: low, close: close, n: n}
}

func (k candles) body(i int) float64     { return math.Abs(k.close[i] - k.open[i]) }
func (k candles) highLow(i int) float64  { return k.high[i] - k.low[i] }
func (k candles) bodyTop(i int) float64  { return math.Max(k.open[i], k.close[i]) }
func (k candles) bodyBase(i int) float64 { return math.Min(k.open[i], k.close[i]) }
func (k candles) upper(i int) float64    { return k.high[i] - k.bodyTop(i) }
func (k candles) lower(i int) float64    { return k.bodyBase(i) - k.low[i] }

// color is 1 for a white (close >= open) candle and -1 for a black one.
func (k candles) color(i int) int {
	if k.close[i] >= k.open[i] {
		return 1
	}
	return -1
}

func (k candles) gapUp(i, prev int) bool   { return k.bodyBase(i) > k.bodyTop(prev) }
func (k candles) gapDown(i, prev int) bool { return k.bodyTop(i) < k.bodyBase(prev) }

func (k candles) rangeOf(rt rangeType, i int) float64 {
	switch rt {
	case rangeRealBody:
		return k.body(i)
	case rangeHighLow:
		return k.highLow(i)
	default:
		return k.upper(i) + k.lower(i)
	}
}

// average holds, per bar, a setting's threshold computed from the bars
// before it.
type average struct {
	setting candleSetting
	k       candles
	prior   []float64
}

func newAverage(k candles, s candleSetting) average {
	a := average{setting: s, k: k}
	if s.period == 0 || k.n <= s.period {
		return a
	}

	ranges := make([]float64, k.n)
	for i := range ranges {
		ranges[i] = k.rangeOf(s.rangeType, i)
	}
	sma := talib.Sma(ranges, s.period)

	a.prior = make([]float64, k.n)
	for i := s.period; i < k.n; i++ {
		a.prior[i] = sma[i-1]
	}
	return a
}

// at is only meaningful for i >= period; detectors start at their lookback.
func (a average) at(i int) float64 {
	var base float64
	switch {
	case a.setting.period == 0:
		base = a.k.rangeOf(a.setting.rangeType, i)
	case a.prior == nil:
		return 0
	default:
		base = a.prior[i]
	}

	v := a.setting.factor * base
	if a.setting.rangeType == rangeShadows {
		v /= 2
	}
	return v
}
