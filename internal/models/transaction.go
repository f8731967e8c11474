package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the display label for a transaction. It is redundant
// with the sign of the amount and must always agree with it.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// TypeForAmount returns the transaction type implied by the sign of amount.
func TypeForAmount(amount decimal.Decimal) TransactionType {
	if amount.IsPositive() {
		return TransactionTypeIncome
	}
	return TransactionTypeExpense
}

// Transaction is a single signed monetary movement in the append-only ledger.
// Positive amounts are income, negative amounts are expenses. Rows are
// immutable once created; the only mutation is physical deletion (undo).
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    int64           `gorm:"not null;index" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Category  string          `gorm:"not null" json:"category"`
	Type      TransactionType `gorm:"not null" json:"type"`
	Timestamp time.Time       `gorm:"not null;index" json:"timestamp"`
}
