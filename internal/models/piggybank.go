package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsCategory is the ledger category piggy-bank fund transfers are
// booked against. Aggregation is case-exact, so the constant is the single
// spelling used everywhere.
const SavingsCategory = "Savings"

// PiggyBankGoal is a savings sub-account funded by transferring money out
// of the general budget. CurrentAmount only grows (there is no withdrawal
// path), and Completed always equals CurrentAmount >= TargetAmount.
// Deleting a goal does not return transferred funds to the budget.
type PiggyBankGoal struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        int64           `gorm:"not null;index" json:"user_id"`
	Name          string          `gorm:"not null" json:"name"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"current_amount"`
	Description   string          `json:"description"`
	CreatedDate   time.Time       `gorm:"not null" json:"created_date"`
	Completed     bool            `gorm:"not null;default:false" json:"completed"`
}
