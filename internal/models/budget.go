package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is the cached projection of the current budget for one
// (user, category) pair. It is derived, never authoritative: after any
// settled mutation it must equal the sum of the user's transactions in
// the category plus the standing adjustment (or zero if none).
type Budget struct {
	UserID   int64           `gorm:"primaryKey" json:"user_id"`
	Category string          `gorm:"primaryKey" json:"category"`
	Amount   decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
}

// BudgetAdjustment records the gap between a user-declared budget figure
// and the ledger-derived total at the moment it was declared. At most one
// row exists per (user, category); setting a budget again replaces it.
type BudgetAdjustment struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    int64           `gorm:"not null;uniqueIndex:idx_adjustments_user_category" json:"user_id"`
	Category  string          `gorm:"not null;uniqueIndex:idx_adjustments_user_category" json:"category"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Timestamp time.Time       `gorm:"not null" json:"timestamp"`
}
