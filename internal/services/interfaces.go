package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finassist/internal/models"
	"finassist/internal/pagination"
)

// LedgerServicer defines the contract for the append-only transaction ledger.
type LedgerServicer interface {
	// Append records a movement and recomputes the budget projection for
	// its category in the same database transaction. An empty txType is
	// derived from the sign of the amount.
	Append(userID int64, amount decimal.Decimal, category string, txType models.TransactionType) (*models.Transaction, error)
	// AppendWithDB is Append running against a caller-supplied handle so
	// other services can post ledger entries inside their own transactions.
	AppendWithDB(tx *gorm.DB, userID int64, amount decimal.Decimal, category string, txType models.TransactionType) (*models.Transaction, error)
	History(userID int64, limit int) ([]models.Transaction, error)
	Filter(userID int64, filterParam string, limit int) ([]models.Transaction, error)
	Last(userID int64) (*models.Transaction, error)
	// DeleteAndReconcile removes a transaction and recomputes the budget
	// projection for its category as one atomic operation.
	DeleteAndReconcile(userID int64, transactionID uint) error
}

// BudgetServicer defines the contract for the budget projection engine.
// The cached budget row for a (user, category) must always equal the sum
// of the user's ledger entries in that category plus the standing
// adjustment, or zero if none, after any mutating operation settles.
type BudgetServicer interface {
	SetBudget(userID int64, category string, declared decimal.Decimal) (*models.Budget, error)
	// RecomputeCategory re-derives one cached budget row. It takes the
	// caller's handle so ledger and goal flows can run it inside their own
	// database transactions.
	RecomputeCategory(tx *gorm.DB, userID int64, category string) error
	// Rebuild clears and regroups every budget row for the user from the
	// ledger and adjustments. Idempotent; usable as a cache repair.
	Rebuild(userID int64) error
	GetAll(userID int64) ([]models.Budget, error)
	// AvailableTotal sums the cached budget rows across categories.
	AvailableTotal(userID int64) (decimal.Decimal, error)
}

// PiggyBankServicer defines the contract for savings goals funded from the budget.
type PiggyBankServicer interface {
	Create(userID int64, name string, targetAmount decimal.Decimal, description string) (*models.PiggyBankGoal, error)
	AddFunds(userID int64, goalID uint, amount decimal.Decimal) (*models.PiggyBankGoal, error)
	Get(userID int64, goalID uint) (*models.PiggyBankGoal, error)
	List(userID int64, page pagination.PageRequest) (*pagination.PageResponse[models.PiggyBankGoal], error)
	// Delete removes the goal row only. Funds already transferred stay
	// booked against the Savings category and are not returned.
	Delete(userID int64, goalID uint) error
}

// GoalServicer defines the contract for informational financial targets.
type GoalServicer interface {
	Create(userID int64, amount decimal.Decimal, description string) (*models.Goal, error)
	List(userID int64) ([]models.Goal, error)
}

// DebtServicer defines the contract for the debt ledger.
type DebtServicer interface {
	Save(userID int64, debtor string, amount decimal.Decimal, dueDate *time.Time) (*models.Debt, error)
	ListActive(userID int64) ([]models.Debt, error)
	History(userID int64, page pagination.PageRequest) (*pagination.PageResponse[models.Debt], error)
	// Settle closes the debt and books the compensating ledger entry
	// (expense for a debt the user owed, income for one owed to the user)
	// in a single database transaction.
	Settle(userID int64, debtID uint) (*models.Debt, error)
	// SettleByMatch resolves the oldest open debt matching the debtor name
	// and signed amount, then settles it. Kept for the chat flow, which has
	// no id selection; prefer Settle.
	SettleByMatch(userID int64, debtor string, amount decimal.Decimal) (*models.Debt, error)
	// Close flips the status without booking a compensating entry.
	Close(userID int64, debtID uint) (*models.Debt, error)
}

// ReminderServicer defines the contract for scheduled reminders.
type ReminderServicer interface {
	Add(userID int64, title string, remindAt time.Time) (*models.Reminder, error)
	List(userID int64, includeCompleted bool) ([]models.Reminder, error)
	Get(userID int64, reminderID uint) (*models.Reminder, error)
	Update(userID int64, reminderID uint, title *string, remindAt *time.Time) (*models.Reminder, error)
	MarkCompleted(userID int64, reminderID uint) error
	Delete(userID int64, reminderID uint) error
	// Due returns reminders across all users with remind_at <= now that
	// have not been completed.
	Due(now time.Time) ([]models.Reminder, error)
}
