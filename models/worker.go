package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Worker struct {
	ID        int             `gorm:"primary_key" json:"id"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	Trade     string          `gorm:"size:50" json:"trade"`
	Phone     string          `gorm:"size:20" json:"phone"`
	Status    string          `gorm:"size:20;default:'Active'" json:"status"`
	DailyWage decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"daily_wage"`
	CreatedAt time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
