package detection

import "github.com/fazecat/candlescope/Internal/types"

// Doji: open and close are virtually equal. Always reported as +100.
func Doji(open, high, low, close []float64) []types.Signal {
	k := newCandles(open, high, low, close)
	out := make([]types.Signal, k.n)
	doji := newAverage(k, bodyDoji)

	for i := bodyDoji.period; i < k.n; i++ {
		if k.body(i) <= doji.at(i) {
			out[i] = types.SignalBullish
		}
	}
	return out
}

// Hammer: small body, long lower shadow and almost no upper shadow, with the
// body at or below the prior candle's low.
func Hammer(open, high, low, close []float64) []types.Signal {
	return hammerShape(open, high, low, close, true)
}

// HangingMan is the hammer shape printed at or above the prior candle's high.
func HangingMan(open, high, low, close []float64) []types.Signal {
	return hammerShape(open, high, low, close, false)
}

func hammerShape(open, high, low, close []float64, bottom bool) []types.Signal {
	k := newCandles(open, high, low, close)
	out := make([]types.Signal, k.n)
	short := newAverage(k, bodyShort)
	long := newAverage(k, shadowLong)
	tiny := newAverage(k, shadowVeryShort)
	nearby := newAverage(k, near)

	for i := 11; i < k.n; i++ {
		if k.body(i) >= short.at(i) || k.lower(i) <= long.at(i) || k.upper(i) >= tiny.at(i) {
			continue
		}
		if bottom && k.bodyBase(i) <= k.low[i-1]+nearby.at(i-1) {
			out[i] = types.SignalBullish
		}
		if !bottom && k.bodyBase(i) >= k.high[i-1]-nearby.at(i-1) {
			out[i] = types.SignalBearish
		}
	}
	return out
}

// ShootingStar: small body gapping up, long upper shadow, almost no lower
// shadow.
func ShootingStar(open, high, low, close []float64) []types.Signal {
	k := newCandles(open, high, low, close)
	out := make([]types.Signal, k.n)
	short := newAverage(k, bodyShort)
	long := newAverage(k, shadowLong)
	tiny := newAverage(k, shadowVeryShort)

	for i := 11; i < k.n; i++ {
		if k.body(i) < short.at(i) &&
			k.upper(i) > long.at(i) &&
			k.lower(i) < tiny.at(i) &&
			k.gapUp(i, i-1) {
			out[i] = types.SignalBearish
		}
	}
	return out
}
