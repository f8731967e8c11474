package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is an informational financial target. It carries no enforcement
// tie to the budget projection.
type Goal struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      int64           `gorm:"not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null" json:"date"`
}
