package models

import "time"

type DailyReport struct {
	ID            int       `gorm:"primary_key" json:"id"`
	ProjectId     int       `gorm:"index" json:"project_id"`
	ReportDate    time.Time `gorm:"type:date;index" json:"report_date"`
	Summary       string    `gorm:"type:text" json:"summary"`
	WorkersOnSite int       `gorm:"default:0" json:"workers_on_site"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
