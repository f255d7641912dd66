package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ReportCacheEnabled puts Redis in front of the persisted analysis lookup.
//
// Set via env:
// - ENABLE_REPORT_CACHE=true
func ReportCacheEnabled() bool {
	return boolFromEnv("ENABLE_REPORT_CACHE")
}

// ReportSlowThreshold is the duration above which report generation is logged as slow.
// Env: REPORT_SLOW_MS (default 500ms)
func ReportSlowThreshold() time.Duration {
	ms := int64(500)
	if v := strings.TrimSpace(os.Getenv("REPORT_SLOW_MS")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			ms = n
		}
	}
	return time.Duration(ms) * time.Millisecond
}

// AppLocation is the timezone that defines "today" for analysis dates.
// Env: APP_TIMEZONE (IANA name). Falls back to the process local zone.
func AppLocation() *time.Location {
	name := strings.TrimSpace(os.Getenv("APP_TIMEZONE"))
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		GetLogger().WithField("APP_TIMEZONE", name).Warn("unknown timezone; using local: " + err.Error())
		return time.Local
	}
	return loc
}

// CurrencySymbol prefixes formatted money in insights and exports.
// Env: CURRENCY_SYMBOL (default "₹")
func CurrencySymbol() string {
	if v, ok := os.LookupEnv("CURRENCY_SYMBOL"); ok {
		return v
	}
	return "₹"
}

// SkipMigrations disables AutoMigrate on server startup.
func SkipMigrations() bool {
	return boolFromEnv("SKIP_MIGRATIONS")
}

func IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production")
}

func boolFromEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y" || v == "on"
}
