package detection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fazecat/candlescope/Internal/types"
)

var ErrInputMismatch = errors.New("open/high/low/close lengths differ")

// DetectFunc scores every bar of an OHLC series. The result is aligned with
// the input; bars inside the detector's lookback are always SignalNone.
type DetectFunc func(open, high, low, close []float64) []types.Signal

type Detector struct {
	Name     string // TA-Lib function name, used in reports
	Key      string
	Label    string
	Lookback int
	Detect   DetectFunc
}

// Patterns is the fixed evaluation order used by every report.
var Patterns = []Detector{
	{Name: "CDLENGULFING", Key: "engulfing", Label: "Engulfing Pattern", Lookback: 2, Detect: Engulfing},
	{Name: "CDLDOJI", Key: "doji", Label: "Doji", Lookback: 10, Detect: Doji},
	{Name: "CDLHAMMER", Key: "hammer", Label: "Hammer", Lookback: 11, Detect: Hammer},
	{Name: "CDL3WHITESOLDIERS", Key: "three-white-soldiers", Label: "Three Advancing White Soldiers", Lookback: 12, Detect: ThreeWhiteSoldiers},
	{Name: "CDLHARAMICROSS", Key: "harami-cross", Label: "Harami Cross Pattern", Lookback: 11, Detect: HaramiCross},
	{Name: "CDLHANGINGMAN", Key: "hanging-man", Label: "Hanging Man", Lookback: 11, Detect: HangingMan},
	{Name: "CDLSHOOTINGSTAR", Key: "shooting-star", Label: "Shooting Star", Lookback: 11, Detect: ShootingStar},
	{Name: "CDL3BLACKCROWS", Key: "three-black-crows", Label: "Three Black Crows", Lookback: 13, Detect: ThreeBlackCrows},
	{Name: "CDLDARKCLOUDCOVER", Key: "dark-cloud-cover", Label: "Dark Cloud Cover", Lookback: 11, Detect: DarkCloudCover},
	{Name: "CDLRISEFALL3METHODS", Key: "rise-fall-three-methods", Label: "Rising/Falling Three Methods", Lookback: 14, Detect: RiseFallThreeMethods},
	{Name: "CDLMORNINGDOJISTAR", Key: "morning-doji-star", Label: "Morning Doji Star", Lookback: 12, Detect: MorningDojiStar},
	{Name: "CDLEVENINGDOJISTAR", Key: "evening-doji-star", Label: "Evening Doji Star", Lookback: 12, Detect: EveningDojiStar},
}

// Names lists the pattern identifiers in evaluation order.
func Names() []string {
	names := make([]string, len(Patterns))
	for i, p := range Patterns {
		names[i] = p.Name
	}
	return names
}

// Lookup finds a detector by TA-Lib name or key, ignoring case.
func Lookup(name string) (Detector, bool) {
	for _, p := range Patterns {
		if strings.EqualFold(p.Name, name) || strings.EqualFold(p.Key, name) {
			return p, true
		}
	}
	return Detector{}, false
}

// Validate checks that the four price columns line up.
func Validate(open, high, low, close []float64) error {
	n := len(open)
	if len(high) != n || len(low) != n || len(close) != n {
		return fmt.Errorf("%w: open=%d high=%d low=%d close=%d", ErrInputMismatch, n, len(high), len(low), len(close))
	}
	return nil
}

// Run validates the input and applies the detector.
func (d Detector) Run(open, high, low, close []float64) ([]types.Signal, error) {
	if err := Validate(open, high, low, close); err != nil {
		return nil, fmt.Errorf("%s: %w", d.Name, err)
	}
	return d.Detect(open, high, low, close), nil
}
