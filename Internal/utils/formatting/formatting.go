package formatting

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Separator returns a line separator of given width
func Separator(width int) string {
	return strings.Repeat("=", width)
}

// Price renders a price with two decimals.
func Price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Weekday returns the short weekday of a YYYY-MM-DD date, or "" if the date
// does not parse.
func Weekday(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()[:3]
}
