package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finassist/internal/errors"
	"finassist/internal/models"
	"finassist/internal/pagination"
)

// piggyBankService handles savings goals funded out of the general budget.
type piggyBankService struct {
	db            *gorm.DB
	ledgerService LedgerServicer
}

// NewPiggyBankService creates a new PiggyBankServicer.
func NewPiggyBankService(db *gorm.DB, ledgerService LedgerServicer) PiggyBankServicer {
	return &piggyBankService{
		db:            db,
		ledgerService: ledgerService,
	}
}

// Create starts a new savings goal with nothing saved yet.
func (s *piggyBankService) Create(userID int64, name string, targetAmount decimal.Decimal, description string) (*models.PiggyBankGoal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if !targetAmount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}

	goal := &models.PiggyBankGoal{
		UserID:        userID,
		Name:          name,
		TargetAmount:  targetAmount,
		CurrentAmount: decimal.Zero,
		Description:   description,
		CreatedDate:   time.Now(),
		Completed:     false,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// AddFunds moves money from the general budget into a goal. The funds
// check, the Savings ledger entry, the budget recompute, and the goal
// update commit as one unit; on any failure nothing is applied.
func (s *piggyBankService) AddFunds(userID int64, goalID uint, amount decimal.Decimal) (*models.PiggyBankGoal, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	var goal models.PiggyBankGoal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrGoalNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if goal.Completed {
			return apperrors.ErrGoalCompleted
		}

		available, err := availableTotal(tx, userID)
		if err != nil {
			return err
		}
		if available.LessThan(amount) {
			return apperrors.ErrInsufficientFunds
		}

		// Book the transfer as an expense against the Savings category;
		// this also recomputes the Savings budget row.
		if _, err := s.ledgerService.AppendWithDB(tx, userID, amount.Neg(), models.SavingsCategory, models.TransactionTypeExpense); err != nil {
			return err
		}

		goal.CurrentAmount = goal.CurrentAmount.Add(amount)
		goal.Completed = goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount)

		if err := tx.Model(&goal).Updates(map[string]interface{}{
			"current_amount": goal.CurrentAmount,
			"completed":      goal.Completed,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// Get returns a goal by ID if it belongs to the user.
func (s *piggyBankService) Get(userID int64, goalID uint) (*models.PiggyBankGoal, error) {
	var goal models.PiggyBankGoal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// List returns the user's goals, newest first.
func (s *piggyBankService) List(userID int64, page pagination.PageRequest) (*pagination.PageResponse[models.PiggyBankGoal], error) {
	page.Defaults()

	base := s.db.Model(&models.PiggyBankGoal{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.PiggyBankGoal
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_date DESC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Delete removes the goal row. Transfers already booked against the
// Savings category are not reversed; the money stays out of the budget.
func (s *piggyBankService) Delete(userID int64, goalID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", goalID, userID).Delete(&models.PiggyBankGoal{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrGoalNotFound
	}
	return nil
}
