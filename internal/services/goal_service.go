package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finassist/internal/errors"
	"finassist/internal/models"
)

// goalService handles informational financial targets. Unlike piggy-bank
// goals these carry no budget enforcement; they are purely advisory.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// Create records a new target dated today.
func (s *goalService) Create(userID int64, amount decimal.Decimal, description string) (*models.Goal, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	goal := &models.Goal{
		UserID:      userID,
		Amount:      amount,
		Description: description,
		Date:        time.Now(),
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// List returns the user's targets, most recent first.
func (s *goalService) List(userID int64) ([]models.Goal, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).Order("date DESC").Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}
