package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "finassist/internal/errors"
	"finassist/internal/models"
)

// reminderService handles scheduled reminders. A past remind-at is
// accepted deliberately: it simply fires on the next sweep.
type reminderService struct {
	db *gorm.DB
}

// NewReminderService creates a new ReminderServicer.
func NewReminderService(db *gorm.DB) ReminderServicer {
	return &reminderService{db: db}
}

// Add stores a new reminder.
func (s *reminderService) Add(userID int64, title string, remindAt time.Time) (*models.Reminder, error) {
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}

	reminder := &models.Reminder{
		UserID:      userID,
		Title:       title,
		RemindAt:    remindAt,
		IsCompleted: false,
	}

	if err := s.db.Create(reminder).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return reminder, nil
}

// List returns the user's reminders ordered by due time. Completed
// reminders are excluded unless includeCompleted is set.
func (s *reminderService) List(userID int64, includeCompleted bool) ([]models.Reminder, error) {
	query := s.db.Where("user_id = ?", userID)
	if !includeCompleted {
		query = query.Where("is_completed = ?", false)
	}

	var reminders []models.Reminder
	if err := query.Order("reminder_datetime").Find(&reminders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return reminders, nil
}

// Get returns a reminder by ID if it belongs to the user.
func (s *reminderService) Get(userID int64, reminderID uint) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := s.db.Where("id = ? AND user_id = ?", reminderID, userID).First(&reminder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReminderNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &reminder, nil
}

// Update applies a partial update; unspecified fields keep their value.
func (s *reminderService) Update(userID int64, reminderID uint, title *string, remindAt *time.Time) (*models.Reminder, error) {
	reminder, err := s.Get(userID, reminderID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if title != nil {
		updates["title"] = *title
	}
	if remindAt != nil {
		updates["reminder_datetime"] = *remindAt
	}

	if len(updates) > 0 {
		if err := s.db.Model(reminder).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return reminder, nil
}

// MarkCompleted flags a reminder as delivered.
func (s *reminderService) MarkCompleted(userID int64, reminderID uint) error {
	result := s.db.Model(&models.Reminder{}).
		Where("id = ? AND user_id = ?", reminderID, userID).
		Update("is_completed", true)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrReminderNotFound
	}
	return nil
}

// Delete removes a reminder.
func (s *reminderService) Delete(userID int64, reminderID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", reminderID, userID).Delete(&models.Reminder{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrReminderNotFound
	}
	return nil
}

// Due returns uncompleted reminders across all users whose due time has
// passed. The sweep consumes this and marks each after attempted delivery.
func (s *reminderService) Due(now time.Time) ([]models.Reminder, error) {
	var reminders []models.Reminder
	err := s.db.Where("reminder_datetime <= ? AND is_completed = ?", now, false).
		Order("reminder_datetime").
		Find(&reminders).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return reminders, nil
}
