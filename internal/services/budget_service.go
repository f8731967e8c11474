package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "finassist/internal/errors"
	"finassist/internal/models"
)

// budgetService is the reconciliation core. It keeps the cached budget
// table consistent with the transaction ledger and the adjustment store.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// transactionTotal sums the ledger for one (user, category). Aggregation
// is case-exact; only the ad-hoc ledger filter folds case.
func transactionTotal(tx *gorm.DB, userID int64, category string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category = ?", userID, category).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// adjustmentAmount returns the standing adjustment for one (user, category),
// or zero when none has been recorded.
func adjustmentAmount(tx *gorm.DB, userID int64, category string) (decimal.Decimal, error) {
	var adjustment models.BudgetAdjustment
	err := tx.Where("user_id = ? AND category = ?", userID, category).First(&adjustment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return adjustment.Amount, nil
}

// SetBudget declares the budget figure the user wants to see for a category.
// The gap between the declared figure and the ledger-derived total is stored
// as a standing adjustment that is carried forward as new transactions arrive.
func (s *budgetService) SetBudget(userID int64, category string, declared decimal.Decimal) (*models.Budget, error) {
	budget := &models.Budget{UserID: userID, Category: category, Amount: declared}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		total, err := transactionTotal(tx, userID, category)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		adjustment := models.BudgetAdjustment{
			UserID:    userID,
			Category:  category,
			Amount:    declared.Sub(total),
			Timestamp: time.Now(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "timestamp"}),
		}).Create(&adjustment).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		// By construction the declared figure already satisfies the
		// projection invariant, so the cache is written directly.
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount"}),
		}).Create(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// RecomputeCategory re-derives one cached budget row from the ledger total
// and the standing adjustment. Must be invoked after every transaction
// insert or delete touching the category; it is the only path that keeps
// the cache correct post-mutation.
func (s *budgetService) RecomputeCategory(tx *gorm.DB, userID int64, category string) error {
	total, err := transactionTotal(tx, userID, category)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	adjustment, err := adjustmentAmount(tx, userID, category)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget := models.Budget{UserID: userID, Category: category, Amount: total.Add(adjustment)}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount"}),
	}).Create(&budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}

// Rebuild clears and regroups all budget rows for a user from scratch.
// Produces the same result as recomputing every category the user has
// touched; safe to run repeatedly on a cache suspected of drift.
func (s *budgetService) Rebuild(userID int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Budget{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var transactions []models.Transaction
		if err := tx.Where("user_id = ?", userID).Find(&transactions).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		totals := make(map[string]decimal.Decimal)
		for _, t := range transactions {
			totals[t.Category] = totals[t.Category].Add(t.Amount)
		}

		var adjustments []models.BudgetAdjustment
		if err := tx.Where("user_id = ?", userID).Find(&adjustments).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, a := range adjustments {
			totals[a.Category] = totals[a.Category].Add(a.Amount)
		}

		for category, total := range totals {
			budget := models.Budget{UserID: userID, Category: category, Amount: total}
			if err := tx.Create(&budget).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		return nil
	})
}

// GetAll reads the cached budget rows without recomputing. Callers
// displaying totals accept slightly stale data if a write is mid-flight.
func (s *budgetService) GetAll(userID int64) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Where("user_id = ?", userID).Order("category").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// AvailableTotal sums the cached budget across all categories.
func (s *budgetService) AvailableTotal(userID int64) (decimal.Decimal, error) {
	return availableTotal(s.db, userID)
}

func availableTotal(tx *gorm.DB, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.Model(&models.Budget{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}
