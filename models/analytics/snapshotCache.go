package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/site_backend/models"
	"bitbucket.org/mmdatafocus/site_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// freshnessWindow is how long a generated analysis may be served from cache.
const freshnessWindow = time.Hour

// GetCachedAnalysis returns today's persisted analysis when it was generated
// within the freshness window. Lookup errors and stale rows both report a miss.
func (e *Engine) GetCachedAnalysis(ctx context.Context) (*StoredAnalysis, bool) {
	ctx, span := tracer.Start(ctx, "analytics.GetCachedAnalysis")
	defer span.End()

	today := utils.DateKey(e.now(), e.loc)
	now := e.now()

	if e.reportCache {
		var hit StoredAnalysis
		found, err := cacheGet(reportCacheKey(today), &hit)
		if err != nil {
			e.logger.WithFields(logrus.Fields{"module": "analytics", "analysis_date": today}).
				Warn("report cache read failed: " + err.Error())
		} else if found && isFresh(hit.GeneratedAt, now) {
			return &hit, true
		}
	}

	if e.db == nil {
		return nil, false
	}
	row, err := models.GetCEOAnalysisSnapshotByDate(ctx, e.db, today)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			e.logger.WithFields(logrus.Fields{"module": "analytics", "analysis_date": today}).
				Warn("cached analysis lookup failed: " + err.Error())
		}
		return nil, false
	}
	if !isFresh(row.GeneratedAt, now) {
		return nil, false
	}

	stored, err := decodeStoredAnalysis(row)
	if err != nil {
		e.logError("GetCachedAnalysis", "decode snapshot", today, err)
		return nil, false
	}
	// Warm Redis for the rest of the window.
	if e.reportCache {
		ttl := freshnessWindow - now.Sub(stored.GeneratedAt)
		if err := cacheSet(reportCacheKey(today), stored, ttl); err != nil {
			e.logger.WithFields(logrus.Fields{"module": "analytics", "analysis_date": today}).
				Warn("report cache write failed: " + err.Error())
		}
	}
	return stored, true
}

// isFresh treats exactly one hour as still fresh.
func isFresh(generatedAt, now time.Time) bool {
	return now.Sub(generatedAt).Hours() <= freshnessWindow.Hours()
}

func decodeStoredAnalysis(row *models.CEOAnalysisSnapshot) (*StoredAnalysis, error) {
	stored := &StoredAnalysis{
		AnalysisDate: row.AnalysisDate,
		GeneratedAt:  row.GeneratedAt,
		Alerts:       []Alert{},
	}
	if err := decodeJSONColumn(row.SnapshotData, &stored.SnapshotData); err != nil {
		return nil, fmt.Errorf("snapshot_data: %w", err)
	}
	if err := decodeJSONColumn(row.KeyMetrics, &stored.KeyMetrics); err != nil {
		return nil, fmt.Errorf("key_metrics: %w", err)
	}
	if err := decodeJSONColumn(row.Alerts, &stored.Alerts); err != nil {
		return nil, fmt.Errorf("alerts: %w", err)
	}
	return stored, nil
}
