package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Material struct {
	ID           int             `gorm:"primary_key" json:"id"`
	Name         string          `gorm:"size:100;not null" json:"name"`
	Unit         string          `gorm:"size:20" json:"unit"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	ReorderLevel decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"reorder_level"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	CreatedAt    time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
