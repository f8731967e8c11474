package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finassist/internal/models"
	"finassist/internal/testutil"
)

// createTransactionAt inserts a ledger row with an explicit timestamp so
// ordering tests don't race the clock.
func createTransactionAt(t *testing.T, db *gorm.DB, userID int64, amount decimal.Decimal, category string, ts time.Time) *models.Transaction {
	t.Helper()
	tx := &models.Transaction{
		UserID:    userID,
		Amount:    amount,
		Category:  category,
		Type:      models.TypeForAmount(amount),
		Timestamp: ts,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create transaction: %v", err)
	}
	return tx
}

func TestAppend(t *testing.T) {
	t.Run("derives_type_from_sign", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := NewBudgetService(db)
		svc := NewLedgerService(db, budgetSvc)
		userID := testutil.NextUserID()

		expense, err := svc.Append(userID, dec("-75.50"), "Groceries", "")
		testutil.AssertNoError(t, err)
		if expense.Type != models.TransactionTypeExpense {
			t.Errorf("expected expense, got %s", expense.Type)
		}

		income, err := svc.Append(userID, dec("2500"), "Salary", "")
		testutil.AssertNoError(t, err)
		if income.Type != models.TransactionTypeIncome {
			t.Errorf("expected income, got %s", income.Type)
		}
	})

	t.Run("creates_budget_row_for_new_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := NewBudgetService(db)
		svc := NewLedgerService(db, budgetSvc)
		userID := testutil.NextUserID()

		_, err := svc.Append(userID, dec("-30"), "Coffee", "")
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, dec("-30"), budgetRow(t, budgetSvc, userID, "Coffee"))
	})

	t.Run("rejects_type_sign_mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db, NewBudgetService(db))
		userID := testutil.NextUserID()

		_, err := svc.Append(userID, dec("100"), "Salary", models.TransactionTypeExpense)
		testutil.AssertAppError(t, err, "TYPE_SIGN_MISMATCH")

		_, err = svc.Append(userID, dec("-100"), "Groceries", models.TransactionTypeIncome)
		testutil.AssertAppError(t, err, "TYPE_SIGN_MISMATCH")
	})

	t.Run("rejects_zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db, NewBudgetService(db))

		_, err := svc.Append(testutil.NextUserID(), decimal.Zero, "Groceries", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_empty_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db, NewBudgetService(db))

		_, err := svc.Append(testutil.NextUserID(), dec("10"), "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestHistory(t *testing.T) {
	t.Run("newest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db, NewBudgetService(db))
		userID := testutil.NextUserID()

		base := time.Now()
		createTransactionAt(t, db, userID, dec("100"), "Salary", base.Add(-2*time.Hour))
		createTransactionAt(t, db, userID, dec("-20"), "Groceries", base.Add(-time.Hour))
		newest := createTransactionAt(t, db, userID, dec("-5"), "Coffee", base)

		transactions, err := svc.History(userID, 0)
		testutil.AssertNoError(t, err)
		if len(transactions) != 3 {
			t.Fatalf("expected 3 transactions, got %d", len(transactions))
		}
		if transactions[0].ID != newest.ID {
			t.Errorf("expected newest transaction first, got id %d", transactions[0].ID)
		}
	})

	t.Run("respects_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db, NewBudgetService(db))
		userID := testutil.NextUserID()

		base := time.Now()
		for i := 0; i < 5; i++ {
			createTransactionAt(t, db, userID, dec("-1"), "Coffee", base.Add(time.Duration(i)*time.Minute))
		}

		transactions, err := svc.History(userID, 2)
		testutil.AssertNoError(t, err)
		if len(transactions) != 2 {
			t.Errorf("expected 2 transactions, got %d", len(transactions))
		}
	})

	t.Run("scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db, NewBudgetService(db))
		user1 := testutil.NextUserID()
		user2 := testutil.NextUserID()

		testutil.CreateTestTransaction(t, db, user1, dec("-10"), "Groceries")
		testutil.CreateTestTransaction(t, db, user2, dec("-99"), "Groceries")

		transactions, err := svc.History(user1, 0)
		testutil.AssertNoError(t, err)
		if len(transactions) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(transactions))
		}
		testutil.AssertDecimalEqual(t, dec("-10"), transactions[0].Amount)
	})
}

func TestFilter(t *testing.T) {
	t.Run("matches_category_case_insensitively", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db, NewBudgetService(db))
		userID := testutil.NextUserID()

		testutil.CreateTestTransaction(t, db, userID, dec("-10"), "Groceries")
		testutil.CreateTestTransaction(t, db, userID, dec("-20"), "Transport")

		transactions, err := svc.Filter(userID, "groceries", 0)
		testutil.AssertNoError(t, err)
		if len(transactions) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(transactions))
		}
		if transactions[0].Category != "Groceries" {
			t.Errorf("expected Groceries, got %s", transactions[0].Category)
		}
	})

	t.Run("matches_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db, NewBudgetService(db))
		userID := testutil.NextUserID()

		testutil.CreateTestTransaction(t, db, userID, dec("500"), "Salary")
		testutil.CreateTestTransaction(t, db, userID, dec("-10"), "Groceries")

		transactions, err := svc.Filter(userID, "INCOME", 0)
		testutil.AssertNoError(t, err)
		if len(transactions) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(transactions))
		}
		if transactions[0].Type != models.TransactionTypeIncome {
			t.Errorf("expected income, got %s", transactions[0].Type)
		}
	})

	t.Run("exact_match_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db, NewBudgetService(db))
		userID := testutil.NextUserID()

		testutil.CreateTestTransaction(t, db, userID, dec("-10"), "Groceries")

		transactions, err := svc.Filter(userID, "Grocer", 0)
		testutil.AssertNoError(t, err)
		if len(transactions) != 0 {
			t.Errorf("expected no substring matches, got %d", len(transactions))
		}
	})
}

func TestLast(t *testing.T) {
	t.Run("returns_most_recent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db, NewBudgetService(db))
		userID := testutil.NextUserID()

		base := time.Now()
		createTransactionAt(t, db, userID, dec("100"), "Salary", base.Add(-time.Hour))
		newest := createTransactionAt(t, db, userID, dec("-20"), "Groceries", base)

		last, err := svc.Last(userID)
		testutil.AssertNoError(t, err)
		if last.ID != newest.ID {
			t.Errorf("expected id %d, got %d", newest.ID, last.ID)
		}
	})

	t.Run("not_found_when_empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db, NewBudgetService(db))

		_, err := svc.Last(testutil.NextUserID())
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteAndReconcile(t *testing.T) {
	t.Run("restores_projection", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := NewBudgetService(db)
		svc := NewLedgerService(db, budgetSvc)
		userID := testutil.NextUserID()

		_, err := svc.Append(userID, dec("100"), "Groceries", "")
		testutil.AssertNoError(t, err)
		expense, err := svc.Append(userID, dec("-40"), "Groceries", "")
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, dec("60"), budgetRow(t, budgetSvc, userID, "Groceries"))

		testutil.AssertNoError(t, svc.DeleteAndReconcile(userID, expense.ID))

		testutil.AssertDecimalEqual(t, dec("100"), budgetRow(t, budgetSvc, userID, "Groceries"))
	})

	t.Run("preserves_adjustment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgetSvc := NewBudgetService(db)
		svc := NewLedgerService(db, budgetSvc)
		userID := testutil.NextUserID()

		_, err := budgetSvc.SetBudget(userID, "Groceries", dec("1000"))
		testutil.AssertNoError(t, err)
		expense, err := svc.Append(userID, dec("-200"), "Groceries", "")
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteAndReconcile(userID, expense.ID))

		testutil.AssertDecimalEqual(t, dec("1000"), budgetRow(t, budgetSvc, userID, "Groceries"))
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db, NewBudgetService(db))

		err := svc.DeleteAndReconcile(testutil.NextUserID(), 99999)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("cannot_delete_another_users_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db, NewBudgetService(db))
		owner := testutil.NextUserID()
		intruder := testutil.NextUserID()

		tx := testutil.CreateTestTransaction(t, db, owner, dec("-10"), "Groceries")

		err := svc.DeleteAndReconcile(intruder, tx.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
