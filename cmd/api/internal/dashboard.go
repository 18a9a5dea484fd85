package internal

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/fazecat/candlescope/Internal/strategy/detection"
	"github.com/fazecat/candlescope/Internal/utils/analyzer"
)

//go:embed web/index.html
var indexHTML string

var (
	dashboardTmpl  = template.Must(template.New("index").Parse(indexHTML))
	chartErrorTmpl = template.Must(template.New("chart-error").Parse(
		`<!DOCTYPE html><html><body><p class="unavailable">{{.}}</p></body></html>`))
)

type dashboardView struct {
	Symbol   string
	Window   int
	Patterns []detection.Detector
	Lines    []template.HTML
	Error    string
	ChartDoc string
}

// HandleDashboard runs one scan and renders the report and the chart from
// the same series.
func (api *API) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	symbol := api.symbolParam(r)
	view := dashboardView{
		Symbol:   symbol,
		Window:   api.Scanner.Window,
		Patterns: api.Scanner.Detectors,
	}

	status := http.StatusOK
	res, err := api.Scanner.Scan(r.Context(), symbol)
	if err != nil {
		var msg string
		status, msg = statusFor(err)
		view.Error = msg
	} else {
		view.Lines = reportLines(res.Report)

		var buf bytes.Buffer
		if err := api.Renderer.Render(&buf, res.Series); err != nil {
			api.Logger.Error().Err(err).Str("symbol", symbol).Msg("render chart")
		} else {
			view.ChartDoc = buf.String()
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := dashboardTmpl.Execute(w, view); err != nil {
		api.Logger.Error().Err(err).Msg("render dashboard")
	}
}

func reportLines(report analyzer.Report) []template.HTML {
	if report.IsFallback() {
		return []template.HTML{template.HTML(template.HTMLEscapeString(report.Fallback()))}
	}

	strong := func(s string) string { return "<strong>" + template.HTMLEscapeString(s) + "</strong>" }
	lines := make([]template.HTML, len(report.Matches))
	for i, m := range report.Matches {
		lines[i] = template.HTML(m.Format(template.HTMLEscapeString, strong))
	}
	return lines
}
