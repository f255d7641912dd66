package analytics

import (
	"path/filepath"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/site_backend/config"
	"bitbucket.org/mmdatafocus/site_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenSQLite(filepath.Join(t.TempDir(), "analytics.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := models.MigrateTables(db); err != nil {
		t.Fatalf("MigrateTables: %v", err)
	}
	return db
}

func newTestEngine(db *gorm.DB, now time.Time) *Engine {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewEngine(db, logger,
		WithClock(func() time.Time { return now }),
		WithLocation(time.UTC),
		WithCurrencySymbol("₹"),
		WithReportCache(false),
	)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func mustCreate(t *testing.T, db *gorm.DB, value any) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}
