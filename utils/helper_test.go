package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in       decimal.Decimal
		expected string
	}{
		{decimal.NewFromInt(0), "₹0"},
		{decimal.NewFromInt(1250000), "₹1,250,000"},
		{decimal.NewFromInt(-50000), "-₹50,000"},
		{decimal.RequireFromString("999.6"), "₹1,000"},
		{decimal.RequireFromString("-0.4"), "₹0"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.in, "₹"); got != tc.expected {
			t.Fatalf("FormatCurrency(%s) expected %q, got %q", tc.in, tc.expected, got)
		}
	}
}

func TestPercent(t *testing.T) {
	cases := []struct {
		part, whole, expected int
	}{
		{15, 20, 75},
		{6, 10, 60},
		{5, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
	}
	for _, tc := range cases {
		if got := Percent(tc.part, tc.whole); got != tc.expected {
			t.Fatalf("Percent(%d, %d) expected %d, got %d", tc.part, tc.whole, tc.expected, got)
		}
	}
}

func TestDecimalPercent(t *testing.T) {
	if got := DecimalPercent(decimal.NewFromInt(-50000), decimal.NewFromInt(200000)); got != -25 {
		t.Fatalf("expected -25, got %d", got)
	}
	if got := DecimalPercent(decimal.NewFromInt(100), decimal.Zero); got != 0 {
		t.Fatalf("expected 0 for zero income, got %d", got)
	}
	if got := DecimalPercent(decimal.NewFromInt(1), decimal.NewFromInt(8)); got != 13 {
		t.Fatalf("expected 13, got %d", got)
	}
}

func TestDateKeyUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+0630", 6*3600+1800)
	ts := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	if got := DateKey(ts, loc); got != "2026-03-02" {
		t.Fatalf("expected 2026-03-02, got %s", got)
	}
	if got := DateKey(ts, time.UTC); got != "2026-03-01" {
		t.Fatalf("expected 2026-03-01, got %s", got)
	}
}
