package models

import "time"

type Incident struct {
	ID          int       `gorm:"primary_key" json:"id"`
	ProjectId   int       `gorm:"index" json:"project_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Severity    string    `gorm:"size:20" json:"severity"`
	Status      string    `gorm:"size:20" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
