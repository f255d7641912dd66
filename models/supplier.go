package models

import "time"

type Supplier struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Category  string    `gorm:"size:50" json:"category"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Status    string    `gorm:"size:20;default:'Active'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
