package analyzer

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/fazecat/candlescope/Internal/strategy/detection"
	"github.com/fazecat/candlescope/Internal/types"
)

func makeSeries(n int) *types.Series {
	s := &types.Series{Symbol: "2330.TW"}
	for i := 0; i < n; i++ {
		s.Bars = append(s.Bars, types.Bar{
			Date: fmt.Sprintf("2024-05-%02d", i+1),
			Open: 100, High: 101.5, Low: 99.5, Close: 101, Volume: 1000,
		})
	}
	return s
}

// fixed returns a detector that emits the given signals at bar offsets
// counted from the end (0 is the latest bar).
func fixed(name string, fromEnd map[int]types.Signal) detection.Detector {
	return detection.Detector{
		Name: name,
		Detect: func(open, high, low, close []float64) []types.Signal {
			out := make([]types.Signal, len(open))
			for back, sig := range fromEnd {
				if idx := len(open) - 1 - back; idx >= 0 {
					out[idx] = sig
				}
			}
			return out
		},
	}
}

func silent(name string) detection.Detector { return fixed(name, nil) }

func report(series *types.Series, detectors ...detection.Detector) Report {
	return Aggregate(series.Symbol, Evaluate(series, detectors, DefaultWindow))
}

func TestAggregate_EmptySeriesFallsBack(t *testing.T) {
	r := Aggregate("2330.TW", Evaluate(&types.Series{Symbol: "2330.TW"}, detection.Patterns, DefaultWindow))

	want := []string{"2330.TW 沒有明顯趨勢"}
	if got := r.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %v, want %v", got, want)
	}
	if !r.IsFallback() || r.HasMatches() {
		t.Error("empty series must render only the fallback")
	}
}

func TestAggregate_SingleBullishOnLatestBar(t *testing.T) {
	series := makeSeries(30)
	detectors := []detection.Detector{silent("CDLENGULFING"), fixed("CDLDOJI", map[int]types.Signal{0: types.SignalBullish}), silent("CDLHAMMER")}

	lines := report(series, detectors...).Lines()

	want := []string{"2330.TW 在 2024-05-30 符合 CDLDOJI 上漲形態"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Lines() = %v, want %v", lines, want)
	}
}

func TestAggregate_BearishClassifiedBySign(t *testing.T) {
	series := makeSeries(20)
	r := report(series, fixed("CDLSHOOTINGSTAR", map[int]types.Signal{2: types.SignalBearish}))

	if len(r.Matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(r.Matches))
	}
	m := r.Matches[0]
	if m.Direction != types.DirectionBearish {
		t.Errorf("direction = %s, want bearish", m.Direction)
	}
	if line := m.Line(); !strings.HasSuffix(line, "下跌形態") || strings.Contains(line, "上漲") {
		t.Errorf("bearish signal rendered as %q", line)
	}
	if m.Date != "2024-05-18" {
		t.Errorf("date = %s, want 2024-05-18", m.Date)
	}
}

func TestAggregate_OnlyTrailingWindow(t *testing.T) {
	series := makeSeries(20)

	r := report(series, fixed("CDLDOJI", map[int]types.Signal{7: types.SignalBullish, 6: types.SignalBearish}))

	if len(r.Matches) != 1 {
		t.Fatalf("matches = %v, want only the bar inside the window", r.Matches)
	}
	if r.Matches[0].Date != "2024-05-14" {
		t.Errorf("date = %s, want 2024-05-14 (seventh from last)", r.Matches[0].Date)
	}
}

func TestAggregate_PatternListOrder(t *testing.T) {
	series := makeSeries(20)
	// The later pattern fires earlier and the earlier pattern fires later;
	// output still follows the list order, then date order.
	r := report(series,
		fixed("CDLENGULFING", map[int]types.Signal{0: types.SignalBearish, 3: types.SignalBullish}),
		silent("CDLDOJI"),
		fixed("CDLHAMMER", map[int]types.Signal{5: types.SignalBullish, 1: types.SignalBullish}),
	)

	want := []string{
		"2330.TW 在 2024-05-17 符合 CDLENGULFING 上漲形態",
		"2330.TW 在 2024-05-20 符合 CDLENGULFING 下跌形態",
		"2330.TW 在 2024-05-15 符合 CDLHAMMER 上漲形態",
		"2330.TW 在 2024-05-19 符合 CDLHAMMER 上漲形態",
	}
	if got := r.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestAggregate_IgnoresPartialSignals(t *testing.T) {
	series := makeSeries(20)
	r := report(series, fixed("CDLHARAMICROSS", map[int]types.Signal{0: 80, 1: -80, 2: 200}))
	if !r.IsFallback() {
		t.Errorf("partial signals must not be reported, got %v", r.Lines())
	}
}

func TestAggregate_MatchesAndFallbackExclusive(t *testing.T) {
	series := makeSeries(20)
	cases := []Report{
		report(series, silent("A"), silent("B")),
		report(series, fixed("A", map[int]types.Signal{0: types.SignalBullish})),
		report(series, fixed("A", map[int]types.Signal{0: types.SignalBearish}), fixed("B", map[int]types.Signal{4: types.SignalBullish})),
	}
	for i, r := range cases {
		lines := r.Lines()
		hasFallback := false
		for _, l := range lines {
			if l == r.Fallback() {
				hasFallback = true
			}
		}
		if hasFallback == r.HasMatches() {
			t.Errorf("case %d: fallback=%v matches=%d", i, hasFallback, len(r.Matches))
		}
		if hasFallback && len(lines) != 1 {
			t.Errorf("case %d: fallback must be the only line, got %v", i, lines)
		}
	}
}

func TestAggregate_SkipsFailingDetector(t *testing.T) {
	series := makeSeries(20)
	boom := detection.Detector{Name: "CDLBROKEN", Detect: func(open, high, low, close []float64) []types.Signal {
		panic("index out of range")
	}}
	short := detection.Detector{Name: "CDLSHORT", Detect: func(open, high, low, close []float64) []types.Signal {
		return make([]types.Signal, 1)
	}}

	r := report(series, boom, short, fixed("CDLDOJI", map[int]types.Signal{0: types.SignalBullish}))

	if !reflect.DeepEqual(r.Skipped, []string{"CDLBROKEN", "CDLSHORT"}) {
		t.Errorf("skipped = %v", r.Skipped)
	}
	if len(r.Matches) != 1 || r.Matches[0].Pattern != "CDLDOJI" {
		t.Errorf("matches = %v, want the doji only", r.Matches)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	series := makeSeries(40)
	series.Bars[39] = types.Bar{Date: "2024-06-09", Open: 100, High: 101, Low: 99, Close: 100.05, Volume: 1}

	first := report(series, detection.Patterns...)
	second := report(series, detection.Patterns...)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("reports differ:\n%v\n%v", first, second)
	}
	if !reflect.DeepEqual(first.Lines(), []string{"2330.TW 在 2024-06-09 符合 CDLDOJI 上漲形態"}) {
		t.Errorf("Lines() = %v", first.Lines())
	}
}

func TestReport_Markdown(t *testing.T) {
	r := Report{Symbol: "2330.TW", Matches: []Match{
		{Symbol: "2330.TW", Date: "2024-06-03", Pattern: "CDLDOJI", Direction: types.DirectionBullish},
		{Symbol: "2330.TW", Date: "2024-06-04", Pattern: "CDLHANGINGMAN", Direction: types.DirectionBearish},
	}}
	want := "2330.TW 在 **2024-06-03** 符合 **CDLDOJI** 上漲形態  \n" +
		"2330.TW 在 **2024-06-04** 符合 **CDLHANGINGMAN** 下跌形態  \n"
	if got := r.Markdown(); got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
	if got := (Report{Symbol: "AAPL"}).Markdown(); got != "AAPL 沒有明顯趨勢" {
		t.Errorf("fallback markdown = %q", got)
	}
}

func TestEvaluate_ShortSeriesKeepsAllBars(t *testing.T) {
	res := Evaluate(makeSeries(3), []detection.Detector{silent("CDLDOJI")}, DefaultWindow)
	if len(res) != 1 || len(res[0].Dates) != 3 || len(res[0].Signals) != 3 {
		t.Fatalf("Evaluate() = %+v", res)
	}
}

func TestMatch_Format(t *testing.T) {
	m := Match{Symbol: "<b>", Date: "2024-06-03", Pattern: "CDLDOJI", Direction: types.DirectionBearish}
	got := m.Format(strings.ToLower, func(s string) string { return "[" + s + "]" })
	if want := "<b> 在 [2024-06-03] 符合 [CDLDOJI] 下跌形態"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
	if m.Line() != "<b> 在 2024-06-03 符合 CDLDOJI 下跌形態" {
		t.Errorf("Line() = %q", m.Line())
	}
}
