package analyzer

import (
	"fmt"
	"strings"

	"github.com/fazecat/candlescope/Internal/types"
)

type Match struct {
	Symbol    string          `json:"symbol"`
	Date      string          `json:"date"`
	Pattern   string          `json:"pattern"`
	Direction types.Direction `json:"direction"`
}

// Line renders the match the way the dashboard prints it.
func (m Match) Line() string {
	return m.Format(plain, plain)
}

func (m Match) markdown() string {
	return m.Format(plain, func(s string) string { return "**" + s + "**" })
}

// Format renders the match line, passing the symbol through text and the
// date and pattern through emphasis.
func (m Match) Format(text, emphasis func(string) string) string {
	return fmt.Sprintf("%s 在 %s 符合 %s %s",
		text(m.Symbol), emphasis(m.Date), emphasis(m.Pattern), directionWord(m.Direction))
}

func plain(s string) string { return s }

func directionWord(d types.Direction) string {
	if d == types.DirectionBearish {
		return "下跌形態"
	}
	return "上漲形態"
}

// Report is the outcome of one evaluation request.
type Report struct {
	Symbol  string   `json:"symbol"`
	Matches []Match  `json:"matches"`
	Skipped []string `json:"skipped,omitempty"`
}

// Aggregate walks the results in pattern order, then date order, and turns
// every full-strength signal into a match classified by its sign.
func Aggregate(symbol string, results []PatternResult) Report {
	report := Report{Symbol: symbol, Matches: []Match{}}

	for _, res := range results {
		if res.Err != nil {
			report.Skipped = append(report.Skipped, res.Pattern)
			continue
		}
		for i, sig := range res.Signals {
			dir, ok := sig.Direction()
			if !ok {
				continue
			}
			report.Matches = append(report.Matches, Match{
				Symbol:    symbol,
				Date:      res.Dates[i],
				Pattern:   res.Pattern,
				Direction: dir,
			})
		}
	}
	return report
}

func (r Report) HasMatches() bool { return len(r.Matches) > 0 }

// IsFallback reports whether the report renders as the no-trend sentence.
func (r Report) IsFallback() bool { return !r.HasMatches() }

func (r Report) Fallback() string {
	return fmt.Sprintf("%s 沒有明顯趨勢", r.Symbol)
}

// Lines returns one line per match, or only the fallback sentence.
func (r Report) Lines() []string {
	if r.IsFallback() {
		return []string{r.Fallback()}
	}
	lines := make([]string, len(r.Matches))
	for i, m := range r.Matches {
		lines[i] = m.Line()
	}
	return lines
}

// Markdown renders the report with bold dates and pattern names and
// markdown hard line breaks.
func (r Report) Markdown() string {
	if r.IsFallback() {
		return r.Fallback()
	}
	var b strings.Builder
	for _, m := range r.Matches {
		b.WriteString(m.markdown())
		b.WriteString("  \n")
	}
	return b.String()
}

func (r Report) String() string {
	return strings.Join(r.Lines(), "\n")
}
