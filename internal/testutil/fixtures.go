package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"finassist/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NextUserID returns a fresh user ID so tests never share ledger state.
func NextUserID() int64 {
	return 1000000 + nextID()
}

// CreateTestTransaction creates a ledger entry with the type derived from
// the sign of the amount.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID int64, amount decimal.Decimal, category string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:    userID,
		Amount:    amount,
		Category:  category,
		Type:      models.TypeForAmount(amount),
		Timestamp: time.Now(),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestPiggyBankGoal creates a savings goal with no funds yet.
func CreateTestPiggyBankGoal(t *testing.T, db *gorm.DB, userID int64, target decimal.Decimal) *models.PiggyBankGoal {
	t.Helper()

	goal := &models.PiggyBankGoal{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		CreatedDate:   time.Now(),
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test piggy bank goal: %v", err)
	}
	return goal
}

// CreateTestDebt creates an open debt due in a week.
func CreateTestDebt(t *testing.T, db *gorm.DB, userID int64, debtor string, amount decimal.Decimal) *models.Debt {
	t.Helper()

	debt := &models.Debt{
		UserID:       userID,
		Debtor:       debtor,
		Amount:       amount,
		Status:       models.DebtStatusOpen,
		DueDate:      time.Now().Add(7 * 24 * time.Hour),
		CreationTime: time.Now(),
	}
	if err := db.Create(debt).Error; err != nil {
		t.Fatalf("failed to create test debt: %v", err)
	}
	return debt
}

// CreateTestReminder creates a pending reminder due at the given time.
func CreateTestReminder(t *testing.T, db *gorm.DB, userID int64, remindAt time.Time) *models.Reminder {
	t.Helper()

	reminder := &models.Reminder{
		UserID:   userID,
		Title:    fmt.Sprintf("Test Reminder %d", nextID()),
		RemindAt: remindAt,
	}
	if err := db.Create(reminder).Error; err != nil {
		t.Fatalf("failed to create test reminder: %v", err)
	}
	return reminder
}
