package models

import "time"

type Attendance struct {
	ID        int              `gorm:"primary_key" json:"id"`
	WorkerId  int              `gorm:"index;not null" json:"worker_id"`
	Worker    *Worker          `gorm:"foreignKey:WorkerId" json:"worker,omitempty"`
	Date      time.Time        `gorm:"type:date;index;not null" json:"date"`
	IsPresent bool             `gorm:"not null;default:false" json:"is_present"`
	Status    AttendanceStatus `gorm:"size:20" json:"status"`
	CheckIn   *time.Time       `json:"check_in"`
	CheckOut  *time.Time       `json:"check_out"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// CountsPresent and CountsAbsent are evaluated independently; a record whose
// IsPresent flag disagrees with its Status counts in both buckets.
func (a Attendance) CountsPresent() bool {
	return a.IsPresent || a.Status == AttendanceStatusPresent
}

func (a Attendance) CountsAbsent() bool {
	return !a.IsPresent || a.Status == AttendanceStatusAbsent
}
