package internal

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/fazecat/candlescope/Internal/chart"
	"github.com/fazecat/candlescope/Internal/strategy/detection"
	"github.com/fazecat/candlescope/Internal/types"
	"github.com/fazecat/candlescope/Internal/utils/analyzer"
	"github.com/fazecat/candlescope/Internal/utils/scanner"
)

type API struct {
	Scanner       *scanner.Scanner
	Renderer      *chart.Renderer
	Logger        zerolog.Logger
	DefaultSymbol string
}

// NewRouter wires the dashboard, chart and JSON routes.
func NewRouter(api *API) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(api.Logger))
	r.Use(middleware.Recoverer)
	r.Use(CorsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    "healthy",
		})
	})

	r.Get("/", api.HandleDashboard)
	r.Get("/chart", api.HandleChart)

	r.Get("/api/patterns", api.HandleListPatterns)
	r.Get("/api/patterns/{symbol}", api.HandleSymbolPatterns)

	return r
}

// symbolParam falls back to the default symbol only when the parameter is
// absent, so an explicitly blank input still reports the empty symbol.
func (api *API) symbolParam(r *http.Request) string {
	q := r.URL.Query()
	if _, ok := q["symbol"]; !ok {
		return api.DefaultSymbol
	}
	return strings.TrimSpace(q.Get("symbol"))
}

func (api *API) HandleChart(w http.ResponseWriter, r *http.Request) {
	symbol := api.symbolParam(r)

	series, err := api.Scanner.Fetch(r.Context(), symbol)
	if err != nil {
		status, msg := statusFor(err)
		api.Logger.Warn().Err(err).Str("symbol", symbol).Msg("chart unavailable")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		chartErrorTmpl.Execute(w, msg)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := api.Renderer.Render(w, series); err != nil {
		api.Logger.Error().Err(err).Str("symbol", symbol).Msg("render chart")
	}
}

func (api *API) HandleListPatterns(w http.ResponseWriter, r *http.Request) {
	patterns := make([]map[string]interface{}, 0, len(detection.Patterns))
	for _, d := range detection.Patterns {
		patterns = append(patterns, map[string]interface{}{
			"name":     d.Name,
			"key":      d.Key,
			"label":    d.Label,
			"lookback": d.Lookback,
		})
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"patterns": patterns,
		"count":    len(patterns),
	})
}

type patternsResponse struct {
	Symbol    string           `json:"symbol"`
	Lines     []string         `json:"lines"`
	Markdown  string           `json:"markdown"`
	Matches   []analyzer.Match `json:"matches"`
	Skipped   []string         `json:"skipped"`
	Bars      []types.Bar      `json:"bars"`
	ElapsedMS int64            `json:"elapsed_ms"`
}

func (api *API) HandleSymbolPatterns(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	res, err := api.Scanner.Scan(r.Context(), symbol)
	if err != nil {
		status, msg := statusFor(err)
		WriteError(w, status, msg)
		return
	}

	skipped := res.Report.Skipped
	if skipped == nil {
		skipped = []string{}
	}
	WriteJSON(w, http.StatusOK, patternsResponse{
		Symbol:    res.Report.Symbol,
		Lines:     res.Report.Lines(),
		Markdown:  res.Report.Markdown(),
		Matches:   res.Report.Matches,
		Skipped:   skipped,
		Bars:      res.Series.Bars,
		ElapsedMS: res.Elapsed.Round(time.Millisecond).Milliseconds(),
	})
}
