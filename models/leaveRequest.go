package models

import "time"

type LeaveRequest struct {
	ID        int                `gorm:"primary_key" json:"id"`
	WorkerId  int                `gorm:"index;not null" json:"worker_id"`
	StartDate time.Time          `gorm:"type:date" json:"start_date"`
	EndDate   time.Time          `gorm:"type:date" json:"end_date"`
	Reason    string             `gorm:"type:text" json:"reason"`
	Status    LeaveRequestStatus `gorm:"size:20;not null;default:'Pending'" json:"status"`
	CreatedAt time.Time          `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}
