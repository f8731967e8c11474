package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtStatus is the lifecycle state of a debt. open -> closed, terminal.
type DebtStatus string

const (
	DebtStatusOpen   DebtStatus = "open"
	DebtStatusClosed DebtStatus = "closed"
)

// Ledger categories for the compensating entries booked when a debt is
// settled from the budget.
const (
	DebtRepaymentCategory  = "Debt Repayment"
	DebtCollectionCategory = "Debt Collection"
)

// Debt is a signed obligation record. A negative amount means the user
// owes the debtor; a positive amount means the debtor owes the user.
type Debt struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       int64           `gorm:"not null;index" json:"user_id"`
	Debtor       string          `gorm:"not null" json:"debtor"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Status       DebtStatus      `gorm:"not null;default:open" json:"status"`
	DueDate      time.Time       `gorm:"not null" json:"due_date"`
	CreationTime time.Time       `gorm:"not null" json:"creation_time"`
}
