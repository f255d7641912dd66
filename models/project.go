package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project progress is a percentage in [0, 100].
type Project struct {
	ID        int             `gorm:"primary_key" json:"id"`
	Name      string          `gorm:"size:150;not null" json:"name"`
	ClientId  int             `gorm:"index" json:"client_id"`
	Location  string          `gorm:"size:200" json:"location"`
	Status    ProjectStatus   `gorm:"size:20;not null;default:'Planning'" json:"status"`
	Progress  int             `gorm:"default:0" json:"progress"`
	Budget    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"budget"`
	StartDate *time.Time      `json:"start_date"`
	EndDate   *time.Time      `json:"end_date"`
	CreatedAt time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsDelayed reports progress under 50% on a project that is not completed.
func (p Project) IsDelayed() bool {
	return p.Progress < 50 && p.Status != ProjectStatusCompleted
}

func (p Project) IsOnTrack() bool {
	return p.Progress >= 80
}

func (p Project) IsCritical() bool {
	return p.Status == ProjectStatusOnHold || p.Status == ProjectStatusCancelled
}
