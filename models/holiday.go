package models

import "time"

type Holiday struct {
	ID   int       `gorm:"primary_key" json:"id"`
	Name string    `gorm:"size:100;not null" json:"name"`
	Date time.Time `gorm:"type:date;index;not null" json:"date"`
}
