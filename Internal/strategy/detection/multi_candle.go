package detection

import "github.com/fazecat/candlescope/Internal/types"

const (
	darkCloudPenetration = 0.5
	dojiStarPenetration  = 0.3
)

// Engulfing: the second real body engulfs the first one of opposite colour.
// A body sharing an edge with the first scores 80 instead of 100.
func Engulfing(open, high, low, close []float64) []types.Signal {
	k := newCandles(open, high, low, close)
	out := make([]types.Signal, k.n)

	for i := 2; i < k.n; i++ {
		p := i - 1
		white := k.color(i) == 1 && k.color(p) == -1 &&
			((k.close[i] >= k.open[p] && k.open[i] < k.close[p]) ||
				(k.close[i] > k.open[p] && k.open[i] <= k.close[p]))
		black := k.color(i) == -1 && k.color(p) == 1 &&
			((k.open[i] >= k.close[p] && k.close[i] < k.open[p]) ||
				(k.open[i] > k.close[p] && k.close[i] <= k.open[p]))
		if !white && !black {
			continue
		}

		strength := 100
		if k.open[i] == k.close[p] || k.close[i] == k.open[p] {
			strength = 80
		}
		out[i] = types.Signal(k.color(i) * strength)
	}
	return out
}

// HaramiCross: a long candle followed by a doji inside its real body. The
// signal opposes the first candle's colour; 80 when the doji only touches
// the body's edges.
func HaramiCross(open, high, low, close []float64) []types.Signal {
	k := newCandles(open, high, low, close)
	out := make([]types.Signal, k.n)
	long := newAverage(k, bodyLong)
	doji := newAverage(k, bodyDoji)

	for i := 11; i < k.n; i++ {
		p := i - 1
		if k.body(p) <= long.at(p) || k.body(i) > doji.at(i) {
			continue
		}
		switch {
		case k.bodyTop(i) < k.bodyTop(p) && k.bodyBase(i) > k.bodyBase(p):
			out[i] = types.Signal(-k.color(p) * 100)
		case k.bodyTop(i) <= k.bodyTop(p) && k.bodyBase(i) >= k.bodyBase(p):
			out[i] = types.Signal(-k.color(p) * 80)
		}
	}
	return out
}

// DarkCloudCover: a long white candle, then a black one opening above its
// high and closing well into its body.
func DarkCloudCover(open, high, low, close []float64) []types.Signal {
	k := newCandles(open, high, low, close)
	out := make([]types.Signal, k.n)
	long := newAverage(k, bodyLong)

	for i := 11; i < k.n; i++ {
		p := i - 1
		if k.color(p) == 1 && k.body(p) > long.at(p) &&
			k.color(i) == -1 &&
			k.open[i] > k.high[p] &&
			k.close[i] > k.open[p] &&
			k.close[i] < k.close[p]-k.body(p)*darkCloudPenetration {
			out[i] = types.SignalBearish
		}
	}
	return out
}

// ThreeWhiteSoldiers: three rising white candles, each opening within or
// near the prior body and closing near its high, without shrinking.
func ThreeWhiteSoldiers(open, high, low, close []float64) []types.Signal {
	k := newCandles(open, high, low, close)
	out := make([]types.Signal, k.n)
	tiny := newAverage(k, shadowVeryShort)
	short := newAverage(k, bodyShort)
	nearby := newAverage(k, near)
	distant := newAverage(k, far)

	for i := 12; i < k.n; i++ {
		a, b := i-2, i-1
		if k.color(a) != 1 || k.upper(a) >= tiny.at(a) ||
			k.color(b) != 1 || k.upper(b) >= tiny.at(b) ||
			k.color(i) != 1 || k.upper(i) >= tiny.at(i) {
			continue
		}
		if !(k.close[i] > k.close[b] && k.close[b] > k.close[a]) {
			continue
		}
		if k.open[b] > k.open[a] && k.open[b] <= k.close[a]+nearby.at(a) &&
			k.open[i] > k.open[b] && k.open[i] <= k.close[b]+nearby.at(b) &&
			k.body(b) > k.body(a)-distant.at(a) &&
			k.body(i) > k.body(b)-distant.at(b) &&
			k.body(i) > short.at(i) {
			out[i] = types.SignalBullish
		}
	}
	return out
}

// ThreeBlackCrows: after a white candle, three falling black candles, each
// opening inside the prior body and closing near its low.
func ThreeBlackCrows(open, high, low, close []float64) []types.Signal {
	k := newCandles(open, high, low, close)
	out := make([]types.Signal, k.n)
	tiny := newAverage(k, shadowVeryShort)

	for i := 13; i < k.n; i++ {
		w, a, b := i-3, i-2, i-1
		if k.color(w) != 1 ||
			k.color(a) != -1 || k.lower(a) >= tiny.at(a) ||
			k.color(b) != -1 || k.lower(b) >= tiny.at(b) ||
			k.color(i) != -1 || k.lower(i) >= tiny.at(i) {
			continue
		}
		if k.open[b] < k.open[a] && k.open[b] > k.close[a] &&
			k.open[i] < k.open[b] && k.open[i] > k.close[b] &&
			k.high[w] > k.close[a] &&
			k.close[a] > k.close[b] && k.close[b] > k.close[i] {
			out[i] = types.SignalBearish
		}
	}
	return out
}

// RiseFallThreeMethods: a long candle, three small counter-trend candles held
// inside its range, then a long candle resuming the trend past the first
// close. The sign follows the first candle.
func RiseFallThreeMethods(open, high, low, close []float64) []types.Signal {
	k := newCandles(open, high, low, close)
	out := make([]types.Signal, k.n)
	long := newAverage(k, bodyLong)
	short := newAverage(k, bodyShort)

	for i := 14; i < k.n; i++ {
		first := i - 4
		if k.body(first) <= long.at(first) || k.body(i) <= long.at(i) {
			continue
		}

		dir := k.color(first)
		d := float64(dir)
		ok := k.color(i-3) == -dir &&
			k.color(i-2) == k.color(i-3) &&
			k.color(i-1) == k.color(i-2) &&
			k.color(i) == dir
		for j := i - 3; ok && j < i; j++ {
			ok = k.body(j) < short.at(j) &&
				k.bodyBase(j) < k.high[first] && k.bodyTop(j) > k.low[first]
		}
		if !ok {
			continue
		}

		if k.close[i-2]*d < k.close[i-3]*d &&
			k.close[i-1]*d < k.close[i-2]*d &&
			k.open[i]*d > k.close[i-1]*d &&
			k.close[i]*d > k.close[first]*d {
			out[i] = types.Signal(dir * 100)
		}
	}
	return out
}

// MorningDojiStar: a long black candle, a doji gapping below it, then a white
// candle closing well into the first body.
func MorningDojiStar(open, high, low, close []float64) []types.Signal {
	return dojiStar(open, high, low, close, -1)
}

// EveningDojiStar mirrors MorningDojiStar at a top.
func EveningDojiStar(open, high, low, close []float64) []types.Signal {
	return dojiStar(open, high, low, close, 1)
}

// dojiStar scans for the three-candle star whose first candle has colour
// first; the signal opposes that colour.
func dojiStar(open, high, low, close []float64, first int) []types.Signal {
	k := newCandles(open, high, low, close)
	out := make([]types.Signal, k.n)
	long := newAverage(k, bodyLong)
	doji := newAverage(k, bodyDoji)
	short := newAverage(k, bodyShort)

	for i := 12; i < k.n; i++ {
		a, star := i-2, i-1
		if k.color(a) != first || k.body(a) <= long.at(a) ||
			k.body(star) > doji.at(star) ||
			k.body(i) <= short.at(i) || k.color(i) != -first {
			continue
		}

		pen := k.body(a) * dojiStarPenetration
		if first == -1 && k.gapDown(star, a) && k.close[i] > k.close[a]+pen {
			out[i] = types.SignalBullish
		}
		if first == 1 && k.gapUp(star, a) && k.close[i] < k.close[a]-pen {
			out[i] = types.SignalBearish
		}
	}
	return out
}
