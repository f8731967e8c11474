package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finassist/internal/errors"
	"finassist/internal/models"
	"finassist/internal/pagination"
)

// debtService handles amounts owed and owing with open/closed lifecycle.
type debtService struct {
	db            *gorm.DB
	ledgerService LedgerServicer
}

// NewDebtService creates a new DebtServicer.
func NewDebtService(db *gorm.DB, ledgerService LedgerServicer) DebtServicer {
	return &debtService{
		db:            db,
		ledgerService: ledgerService,
	}
}

// Save records a new debt. A negative amount means the user owes the
// debtor; positive means the debtor owes the user. The due date defaults
// to today.
func (s *debtService) Save(userID int64, debtor string, amount decimal.Decimal, dueDate *time.Time) (*models.Debt, error) {
	if strings.TrimSpace(debtor) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "debtor name is required")
	}
	if amount.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be zero")
	}

	now := time.Now()
	due := now
	if dueDate != nil {
		due = *dueDate
	}

	debt := &models.Debt{
		UserID:       userID,
		Debtor:       debtor,
		Amount:       amount,
		Status:       models.DebtStatusOpen,
		DueDate:      due,
		CreationTime: now,
	}

	if err := s.db.Create(debt).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return debt, nil
}

// ListActive returns the user's open debts.
func (s *debtService) ListActive(userID int64) ([]models.Debt, error) {
	var debts []models.Debt
	err := s.db.Where("user_id = ? AND status = ?", userID, models.DebtStatusOpen).
		Order("due_date").
		Find(&debts).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return debts, nil
}

// History returns all of the user's debts, open and closed, by due date descending.
func (s *debtService) History(userID int64, page pagination.PageRequest) (*pagination.PageResponse[models.Debt], error) {
	page.Defaults()

	base := s.db.Model(&models.Debt{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var debts []models.Debt
	if err := base.Scopes(pagination.Paginate(page)).
		Order("due_date DESC").
		Find(&debts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(debts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Settle closes a debt and books the compensating ledger entry in one
// database transaction: a debt the user owed becomes an expense of the
// absolute value, a debt owed to the user becomes an income.
func (s *debtService) Settle(userID int64, debtID uint) (*models.Debt, error) {
	var debt models.Debt
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", debtID, userID).First(&debt).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrDebtNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if debt.Status == models.DebtStatusClosed {
			return apperrors.ErrDebtClosed
		}

		if err := tx.Model(&debt).Update("status", models.DebtStatusClosed).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		debt.Status = models.DebtStatusClosed

		// The compensating entry carries the original signed amount:
		// repaying what the user owed leaves the ledger, collecting what
		// was owed enters it.
		category := models.DebtCollectionCategory
		txType := models.TransactionTypeIncome
		if debt.Amount.IsNegative() {
			category = models.DebtRepaymentCategory
			txType = models.TransactionTypeExpense
		}

		if _, err := s.ledgerService.AppendWithDB(tx, userID, debt.Amount, category, txType); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

// SettleByMatch resolves the oldest open debt with the given debtor name
// and signed amount, then settles it by id. Duplicate debts to the same
// person for the same amount therefore drain oldest-first rather than
// closing all at once.
func (s *debtService) SettleByMatch(userID int64, debtor string, amount decimal.Decimal) (*models.Debt, error) {
	var debt models.Debt
	err := s.db.Where("user_id = ? AND debtor = ? AND amount = ? AND status = ?",
		userID, debtor, amount, models.DebtStatusOpen).
		Order("creation_time").
		First(&debt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDebtNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.Settle(userID, debt.ID)
}

// Close flips an open debt to closed without booking a compensating
// entry. Used when a debt is written off rather than settled from the
// budget.
func (s *debtService) Close(userID int64, debtID uint) (*models.Debt, error) {
	var debt models.Debt
	if err := s.db.Where("id = ? AND user_id = ?", debtID, userID).First(&debt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDebtNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if debt.Status == models.DebtStatusClosed {
		return nil, apperrors.ErrDebtClosed
	}

	if err := s.db.Model(&debt).Update("status", models.DebtStatusClosed).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	debt.Status = models.DebtStatusClosed

	return &debt, nil
}
