package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"finassist/internal/models"
	"finassist/internal/pagination"
	"finassist/internal/testutil"
)

// setupPiggyBank wires the service chain and seeds the user's budget with
// available funds.
func setupPiggyBank(t *testing.T, available string) (PiggyBankServicer, BudgetServicer, int64, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	budgetSvc := NewBudgetService(db)
	ledgerSvc := NewLedgerService(db, budgetSvc)
	piggySvc := NewPiggyBankService(db, ledgerSvc)
	userID := testutil.NextUserID()

	if available != "" {
		if _, err := budgetSvc.SetBudget(userID, "General", dec(available)); err != nil {
			t.Fatalf("failed to seed budget: %v", err)
		}
	}

	return piggySvc, budgetSvc, userID, func() { testutil.TeardownTestDB(t, db) }
}

func TestCreatePiggyBankGoal(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		svc, _, userID, teardown := setupPiggyBank(t, "")
		defer teardown()

		goal, err := svc.Create(userID, "Vacation", dec("5000"), "Two weeks away")
		testutil.AssertNoError(t, err)
		if goal.ID == 0 {
			t.Fatal("expected non-zero goal ID")
		}
		testutil.AssertDecimalEqual(t, decimal.Zero, goal.CurrentAmount)
		if goal.Completed {
			t.Error("expected new goal to be incomplete")
		}
	})

	t.Run("rejects_empty_name", func(t *testing.T) {
		svc, _, userID, teardown := setupPiggyBank(t, "")
		defer teardown()

		_, err := svc.Create(userID, "", dec("100"), "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_non_positive_target", func(t *testing.T) {
		svc, _, userID, teardown := setupPiggyBank(t, "")
		defer teardown()

		_, err := svc.Create(userID, "Vacation", dec("-100"), "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAddFunds(t *testing.T) {
	t.Run("moves_budget_into_goal", func(t *testing.T) {
		svc, budgetSvc, userID, teardown := setupPiggyBank(t, "1000")
		defer teardown()

		created, err := svc.Create(userID, "Vacation", dec("500"), "")
		testutil.AssertNoError(t, err)

		goal, err := svc.AddFunds(userID, created.ID, dec("200"))
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, dec("200"), goal.CurrentAmount)
		if goal.Completed {
			t.Error("expected goal to still be open")
		}

		// The transfer is booked as a Savings expense, so the available
		// total drops by the same amount.
		total, err := budgetSvc.AvailableTotal(userID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, dec("800"), total)
		testutil.AssertDecimalEqual(t, dec("-200"), budgetRow(t, budgetSvc, userID, models.SavingsCategory))
	})

	t.Run("completes_goal_at_target", func(t *testing.T) {
		svc, _, userID, teardown := setupPiggyBank(t, "1000")
		defer teardown()

		created, err := svc.Create(userID, "Gadget", dec("300"), "")
		testutil.AssertNoError(t, err)

		goal, err := svc.AddFunds(userID, created.ID, dec("300"))
		testutil.AssertNoError(t, err)
		if !goal.Completed {
			t.Error("expected goal to be completed")
		}
	})

	t.Run("rejects_completed_goal", func(t *testing.T) {
		svc, _, userID, teardown := setupPiggyBank(t, "1000")
		defer teardown()

		created, err := svc.Create(userID, "Gadget", dec("100"), "")
		testutil.AssertNoError(t, err)
		_, err = svc.AddFunds(userID, created.ID, dec("100"))
		testutil.AssertNoError(t, err)

		_, err = svc.AddFunds(userID, created.ID, dec("50"))
		testutil.AssertAppError(t, err, "GOAL_COMPLETED")
	})

	t.Run("rejects_insufficient_funds", func(t *testing.T) {
		svc, budgetSvc, userID, teardown := setupPiggyBank(t, "100")
		defer teardown()

		created, err := svc.Create(userID, "Vacation", dec("5000"), "")
		testutil.AssertNoError(t, err)

		_, err = svc.AddFunds(userID, created.ID, dec("150"))
		testutil.AssertAppError(t, err, "INSUFFICIENT_FUNDS")

		// Nothing was applied: goal untouched, budget untouched.
		goal, err := svc.Get(userID, created.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.Zero, goal.CurrentAmount)

		total, err := budgetSvc.AvailableTotal(userID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, dec("100"), total)
	})

	t.Run("rejects_non_positive_amount", func(t *testing.T) {
		svc, _, userID, teardown := setupPiggyBank(t, "1000")
		defer teardown()

		created, err := svc.Create(userID, "Vacation", dec("500"), "")
		testutil.AssertNoError(t, err)

		_, err = svc.AddFunds(userID, created.ID, dec("-10"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("goal_not_found", func(t *testing.T) {
		svc, _, userID, teardown := setupPiggyBank(t, "1000")
		defer teardown()

		_, err := svc.AddFunds(userID, 99999, dec("10"))
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}

func TestListPiggyBankGoals(t *testing.T) {
	t.Run("paginated", func(t *testing.T) {
		svc, _, userID, teardown := setupPiggyBank(t, "")
		defer teardown()

		for i := 0; i < 3; i++ {
			_, err := svc.Create(userID, "Goal", dec("100"), "")
			testutil.AssertNoError(t, err)
		}

		result, err := svc.List(userID, pagination.PageRequest{Page: 1, PageSize: 2})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 3 {
			t.Errorf("expected 3 total items, got %d", result.TotalItems)
		}
		if len(result.Data) != 2 {
			t.Errorf("expected 2 items on page, got %d", len(result.Data))
		}
		if result.TotalPages != 2 {
			t.Errorf("expected 2 pages, got %d", result.TotalPages)
		}
	})
}

func TestDeletePiggyBankGoal(t *testing.T) {
	t.Run("removes_goal", func(t *testing.T) {
		svc, _, userID, teardown := setupPiggyBank(t, "")
		defer teardown()

		created, err := svc.Create(userID, "Vacation", dec("500"), "")
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.Delete(userID, created.ID))

		_, err = svc.Get(userID, created.ID)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})

	t.Run("funds_not_returned", func(t *testing.T) {
		svc, budgetSvc, userID, teardown := setupPiggyBank(t, "1000")
		defer teardown()

		created, err := svc.Create(userID, "Vacation", dec("500"), "")
		testutil.AssertNoError(t, err)
		_, err = svc.AddFunds(userID, created.ID, dec("200"))
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.Delete(userID, created.ID))

		// The Savings booking stays; the budget does not recover the funds.
		total, err := budgetSvc.AvailableTotal(userID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, dec("800"), total)
	})

	t.Run("not_found", func(t *testing.T) {
		svc, _, userID, teardown := setupPiggyBank(t, "")
		defer teardown()

		err := svc.Delete(userID, 99999)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}
