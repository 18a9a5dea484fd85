package interactive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fazecat/candlescope/Internal/strategy/detection"
	"github.com/fazecat/candlescope/Internal/types"
	"github.com/fazecat/candlescope/Internal/utils/analyzer"
	"github.com/fazecat/candlescope/Internal/utils/config"
	"github.com/fazecat/candlescope/Internal/utils/formatting"
	"github.com/fazecat/candlescope/Internal/utils/scanner"
)

const width = 72

// Session is one terminal menu loop reading from In and printing to Out.
type Session struct {
	Scanner *scanner.Scanner
	Config  *config.Config
	In      io.Reader
	Out     io.Writer
}

func (s *Session) Run(ctx context.Context) error {
	in := bufio.NewScanner(s.In)

	for {
		fmt.Fprintln(s.Out, "\n--- Candlescope Menu ---")
		fmt.Fprintln(s.Out, "1. Analyze Symbol")
		fmt.Fprintln(s.Out, "2. List Patterns")
		fmt.Fprintln(s.Out, "3. Show Configuration")
		fmt.Fprintln(s.Out, "4. Exit")
		fmt.Fprint(s.Out, "Enter choice (1-4): ")

		if !in.Scan() {
			return in.Err()
		}

		switch strings.TrimSpace(in.Text()) {
		case "1":
			fmt.Fprintf(s.Out, "Enter symbol [%s]: ", s.Config.Analysis.DefaultSymbol)
			if !in.Scan() {
				return in.Err()
			}
			symbol := strings.TrimSpace(in.Text())
			if symbol == "" {
				symbol = s.Config.Analysis.DefaultSymbol
			}
			if err := s.Analyze(ctx, symbol); err != nil {
				fmt.Fprintf(s.Out, "[ERROR] %v\n", err)
			}
		case "2":
			ListPatterns(s.Out, s.Scanner.Detectors)
		case "3":
			config.DisplayConfiguration(s.Out, s.Config)
		case "4":
			fmt.Fprintln(s.Out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(s.Out, "Invalid choice. Try again.")
		}
	}
}

// Analyze runs one scan and prints the window bars and the pattern report.
func (s *Session) Analyze(ctx context.Context, symbol string) error {
	res, err := s.Scanner.Scan(ctx, symbol)
	if err != nil {
		return err
	}
	DisplayBars(s.Out, res.Series, s.Scanner.Window)
	DisplayReport(s.Out, res.Report)
	return nil
}

func DisplayBars(w io.Writer, series *types.Series, window int) {
	start := series.Len() - window
	if start < 0 {
		start = 0
	}

	fmt.Fprintf(w, "\n[DATA] %s, last %d of %d bars\n", series.Symbol, series.Len()-start, series.Len())
	fmt.Fprintln(w, "Date            | Open       | High       | Low        | Close      | Volume")
	fmt.Fprintln(w, "----------------|------------|------------|------------|------------|------------")
	for _, b := range series.Bars[start:] {
		fmt.Fprintf(w, "%-10s %-4s | %10s | %10s | %10s | %10s | %10d\n",
			b.Date, formatting.Weekday(b.Date),
			formatting.Price(b.Open), formatting.Price(b.High), formatting.Price(b.Low), formatting.Price(b.Close),
			b.Volume)
	}
}

func DisplayReport(w io.Writer, report analyzer.Report) {
	fmt.Fprintln(w, "\n"+formatting.Separator(width))
	fmt.Fprintln(w, "CANDLESTICK PATTERNS")
	fmt.Fprintln(w, formatting.Separator(width))
	for _, line := range report.Lines() {
		fmt.Fprintln(w, line)
	}
	if len(report.Skipped) > 0 {
		fmt.Fprintf(w, "[WARNING] skipped: %s\n", strings.Join(report.Skipped, ", "))
	}
	fmt.Fprintln(w, formatting.Separator(width))
}

func ListPatterns(w io.Writer, detectors []detection.Detector) {
	fmt.Fprintln(w, "\nPatterns evaluated:")
	for i, d := range detectors {
		fmt.Fprintf(w, "%2d. %-20s %s\n", i+1, d.Name, d.Label)
	}
}
