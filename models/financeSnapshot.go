package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinanceSnapshotDaily is the accounting team's daily aggregate.
//
// Grain: snapshot_date. Columns are nullable because the upstream job writes
// only the figures it could compute for the day.
//
// NOTE: This table is derived data owned by the finance module.
type FinanceSnapshotDaily struct {
	ID              int                 `gorm:"primary_key" json:"id"`
	SnapshotDate    time.Time           `gorm:"type:date;uniqueIndex;not null" json:"snapshot_date"`
	CashBalance     decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"cash_balance"`
	TotalIncome     decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"total_income"`
	TotalExpenses   decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"total_expenses"`
	PendingPayments decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"pending_payments"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FinanceSnapshotDaily) TableName() string {
	return "finance_snapshot_daily"
}

// SystemSnapshotDaily is the platform-wide reconciliation aggregate. When both
// aggregates carry a figure, the system one wins.
type SystemSnapshotDaily struct {
	ID              int                 `gorm:"primary_key" json:"id"`
	SnapshotDate    time.Time           `gorm:"type:date;uniqueIndex;not null" json:"snapshot_date"`
	CashBalance     decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"cash_balance"`
	TotalIncome     decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"total_income"`
	TotalExpenses   decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"total_expenses"`
	PendingPayments decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"pending_payments"`
	ActiveWorkers   int                 `gorm:"default:0" json:"active_workers"`
	ActiveProjects  int                 `gorm:"default:0" json:"active_projects"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SystemSnapshotDaily) TableName() string {
	return "system_snapshot_daily"
}
