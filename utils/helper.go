package utils

import (
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var decimalHalf = decimal.NewFromFloat(0.5)

// ConvertToDate truncates t to midnight in loc.
func ConvertToDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	localTime := t.In(loc)
	return time.Date(localTime.Year(), localTime.Month(), localTime.Day(), 0, 0, 0, 0, loc)
}

// DateKey formats t as YYYY-MM-DD in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return ConvertToDate(t, loc).Format(DateLayout)
}

// RoundHalfUp rounds x to the nearest integer, halves toward +Inf.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Percent returns round(100 * part / whole), or 0 when whole is not positive.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return RoundHalfUp(100 * float64(part) / float64(whole))
}

// DecimalPercent is Percent for money figures.
func DecimalPercent(part, whole decimal.Decimal) int {
	if !whole.IsPositive() {
		return 0
	}
	return int(part.Mul(decimal.NewFromInt(100)).Div(whole).Add(decimalHalf).Floor().IntPart())
}

// FormatCurrency renders d rounded to whole units with thousands separators,
// e.g. "₹1,250,000" or "-₹50,000".
func FormatCurrency(d decimal.Decimal, symbol string) string {
	rounded := d.Round(0)
	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteString("-")
	}
	b.WriteString(symbol)
	b.WriteString(humanize.Comma(rounded.Abs().IntPart()))
	return b.String()
}

// OrEmpty returns s, or an empty non-nil slice when s is nil.
func OrEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
