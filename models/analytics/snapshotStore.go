package analytics

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/mmdatafocus/site_backend/models"
	"bitbucket.org/mmdatafocus/site_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// SaveAnalysis upserts the durable part of an analysis by its date, stamping a
// fresh generated_at. Trends, predictions, insights and action items are not stored.
func (e *Engine) SaveAnalysis(ctx context.Context, a *Analysis) error {
	if a == nil {
		return errors.New("save analysis: nil analysis")
	}
	if e.db == nil {
		return errors.New("save analysis: database is not connected")
	}
	ctx, span := tracer.Start(ctx, "analytics.SaveAnalysis")
	defer span.End()

	stored := StoredAnalysis{
		AnalysisDate: a.AnalysisDate,
		GeneratedAt:  e.now(),
		SnapshotData: a.SnapshotData,
		KeyMetrics:   a.KeyMetrics,
		Alerts:       a.Alerts,
	}
	row, err := newSnapshotRecord(stored)
	if err != nil {
		return fmt.Errorf("save analysis %s: %w", a.AnalysisDate, err)
	}
	if err := models.UpsertCEOAnalysisSnapshot(ctx, e.db, row); err != nil {
		return fmt.Errorf("save analysis %s: %w", a.AnalysisDate, err)
	}

	if e.reportCache {
		if err := cacheSet(reportCacheKey(stored.AnalysisDate), stored, freshnessWindow); err != nil {
			e.logger.WithFields(logrus.Fields{"module": "analytics", "analysis_date": stored.AnalysisDate}).
				Warn("report cache write failed: " + err.Error())
		}
	}
	return nil
}

func newSnapshotRecord(s StoredAnalysis) (*models.CEOAnalysisSnapshot, error) {
	snapshot, err := utils.MarshalToJSON(s.SnapshotData)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot_data: %w", err)
	}
	metrics, err := utils.MarshalToJSON(s.KeyMetrics)
	if err != nil {
		return nil, fmt.Errorf("marshal key_metrics: %w", err)
	}
	alerts := s.Alerts
	if alerts == nil {
		alerts = []Alert{}
	}
	alertsJSON, err := utils.MarshalToJSON(alerts)
	if err != nil {
		return nil, fmt.Errorf("marshal alerts: %w", err)
	}
	return &models.CEOAnalysisSnapshot{
		AnalysisDate: s.AnalysisDate,
		GeneratedAt:  s.GeneratedAt,
		SnapshotData: datatypes.JSON(snapshot),
		KeyMetrics:   datatypes.JSON(metrics),
		Alerts:       datatypes.JSON(alertsJSON),
	}, nil
}
