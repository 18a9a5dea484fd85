package internal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fazecat/candlescope/Internal/datafeed"
	"github.com/fazecat/candlescope/Internal/utils/scanner"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// statusFor maps a scan failure to the status code and the message shown
// to the user.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, scanner.ErrEmptySymbol):
		return http.StatusBadRequest, "Please enter a stock symbol"
	case errors.Is(err, datafeed.ErrSymbolNotFound):
		return http.StatusNotFound, "Symbol not found"
	case errors.Is(err, datafeed.ErrNoData):
		return http.StatusNotFound, "No price data available for this symbol"
	case isTimeout(err):
		return http.StatusGatewayTimeout, "Price data provider timed out"
	default:
		return http.StatusBadGateway, "Price data unavailable"
	}
}

// isTimeout also catches client timeouts surfaced as *url.Error.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
