package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finassist/internal/errors"
	"finassist/internal/models"
)

// ledgerService handles the append-only transaction log.
type ledgerService struct {
	db            *gorm.DB
	budgetService BudgetServicer
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB, budgetService BudgetServicer) LedgerServicer {
	return &ledgerService{
		db:            db,
		budgetService: budgetService,
	}
}

// Append records a signed movement and keeps the budget projection for its
// category in step, both inside one database transaction.
func (s *ledgerService) Append(userID int64, amount decimal.Decimal, category string, txType models.TransactionType) (*models.Transaction, error) {
	var result *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = s.AppendWithDB(tx, userID, amount, category, txType)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AppendWithDB records a movement against a caller-supplied handle (useful
// inside a larger database transaction) and recomputes the category budget.
func (s *ledgerService) AppendWithDB(tx *gorm.DB, userID int64, amount decimal.Decimal, category string, txType models.TransactionType) (*models.Transaction, error) {
	if amount.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be zero")
	}
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	// The display label must agree with the sign of the amount.
	if txType == "" {
		txType = models.TypeForAmount(amount)
	} else if txType != models.TypeForAmount(amount) {
		return nil, apperrors.ErrTypeSignMismatch
	}

	transaction := &models.Transaction{
		UserID:    userID,
		Amount:    amount,
		Category:  category,
		Type:      txType,
		Timestamp: time.Now(),
	}

	if err := tx.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.budgetService.RecomputeCategory(tx, userID, category); err != nil {
		return nil, err
	}

	return transaction, nil
}

// History returns the user's most recent transactions, newest first.
func (s *ledgerService) History(userID int64, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}

	var transactions []models.Transaction
	err := s.db.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// Filter returns transactions whose category or type equals filterParam,
// compared case-insensitively. Equality, not substring: callers passing
// free text get exact-match-only filtering on the two fields.
func (s *ledgerService) Filter(userID int64, filterParam string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}

	var transactions []models.Transaction
	err := s.db.Where("user_id = ? AND (LOWER(category) = LOWER(?) OR LOWER(type) = LOWER(?))",
		userID, filterParam, filterParam).
		Order("timestamp DESC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// Last returns the user's most recent transaction by timestamp.
func (s *ledgerService) Last(userID int64) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.Where("user_id = ?", userID).
		Order("timestamp DESC").
		First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteAndReconcile removes a transaction and recomputes the budget
// projection for its category. The delete and the recompute are one
// atomic unit so the cache cannot drift on a partial failure.
func (s *ledgerService) DeleteAndReconcile(userID int64, transactionID uint) error {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTransactionNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return s.budgetService.RecomputeCategory(tx, userID, transaction.Category)
	})
}
