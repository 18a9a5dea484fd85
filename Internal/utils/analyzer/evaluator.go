package analyzer

import (
	"fmt"

	"github.com/fazecat/candlescope/Internal/strategy/detection"
	"github.com/fazecat/candlescope/Internal/types"
)

// DefaultWindow is the number of most recent bars a report looks at.
const DefaultWindow = 7

// PatternResult is one detector's output over the trailing window.
type PatternResult struct {
	Pattern string
	Dates   []string
	Signals []types.Signal
	Err     error
}

// Evaluate runs every detector across the whole series, so detectors get
// their warm-up bars, and keeps only the last window bars of each output.
// A detector that errors or panics is returned with Err set instead of
// aborting the rest.
func Evaluate(series *types.Series, detectors []detection.Detector, window int) []PatternResult {
	if window <= 0 {
		window = DefaultWindow
	}

	dates := series.Dates()
	open, high, low, close := series.Opens(), series.Highs(), series.Lows(), series.Closes()

	start := len(dates) - window
	if start < 0 {
		start = 0
	}

	results := make([]PatternResult, 0, len(detectors))
	for _, d := range detectors {
		res := PatternResult{Pattern: d.Name}

		signals, err := runSafely(d, open, high, low, close)
		switch {
		case err != nil:
			res.Err = err
		case len(signals) != len(dates):
			res.Err = fmt.Errorf("%s: returned %d signals for %d bars", d.Name, len(signals), len(dates))
		default:
			res.Dates = dates[start:]
			res.Signals = signals[start:]
		}
		results = append(results, res)
	}
	return results
}

func runSafely(d detection.Detector, open, high, low, close []float64) (signals []types.Signal, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: detector panicked: %v", d.Name, r)
		}
	}()
	return d.Run(open, high, low, close)
}
