package models

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CEOAnalysisSnapshot is the persisted executive analysis, one row per analysis date.
// Rows are derived data: regenerating a date overwrites it.
type CEOAnalysisSnapshot struct {
	ID           int            `gorm:"primary_key" json:"id"`
	AnalysisDate string         `gorm:"size:10;not null;uniqueIndex" json:"analysis_date"`
	GeneratedAt  time.Time      `gorm:"not null" json:"generated_at"`
	SnapshotData datatypes.JSON `json:"snapshot_data"`
	KeyMetrics   datatypes.JSON `json:"key_metrics"`
	Alerts       datatypes.JSON `json:"alerts"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CEOAnalysisSnapshot) TableName() string {
	return "ceo_analysis_snapshots"
}

// GetCEOAnalysisSnapshotByDate returns gorm.ErrRecordNotFound when the date has no row.
func GetCEOAnalysisSnapshotByDate(ctx context.Context, db *gorm.DB, analysisDate string) (*CEOAnalysisSnapshot, error) {
	var snapshot CEOAnalysisSnapshot
	err := db.WithContext(ctx).
		Where("analysis_date = ?", analysisDate).
		Take(&snapshot).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// GetLatestCEOAnalysisSnapshot returns the row with the greatest analysis_date.
func GetLatestCEOAnalysisSnapshot(ctx context.Context, db *gorm.DB) (*CEOAnalysisSnapshot, error) {
	var snapshot CEOAnalysisSnapshot
	err := db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "analysis_date"}, Desc: true}).
		Take(&snapshot).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// UpsertCEOAnalysisSnapshot inserts the row or overwrites the existing row for its analysis_date.
func UpsertCEOAnalysisSnapshot(ctx context.Context, db *gorm.DB, snapshot *CEOAnalysisSnapshot) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "analysis_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"generated_at", "snapshot_data", "key_metrics", "alerts", "updated_at"}),
		}).
		Create(snapshot).Error
}
