package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finassist/internal/errors"
	"finassist/internal/services"
)

// ReminderHandler handles reminder requests.
type ReminderHandler struct {
	reminderService services.ReminderServicer
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(reminderService services.ReminderServicer) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// CreateReminderRequest represents the request payload for scheduling a
// reminder.
type CreateReminderRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	RemindAt string `json:"remind_at" binding:"required"`
}

// CreateReminder schedules a reminder. Past timestamps are accepted and
// picked up by the next sweep.
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	remindAt, err := parseFlexibleTime(req.RemindAt)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	reminder, err := h.reminderService.Add(userID, req.Title, remindAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reminder": reminder})
}

// ListReminders returns the user's pending reminders; pass
// include_completed=true to get completed ones too.
func (h *ReminderHandler) ListReminders(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	includeCompleted := c.Query("include_completed") == "true"

	reminders, err := h.reminderService.List(userID, includeCompleted)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}

// GetReminder returns a single reminder.
func (h *ReminderHandler) GetReminder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reminderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	reminder, err := h.reminderService.Get(userID, reminderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminder": reminder})
}

// UpdateReminderRequest represents the request payload for rescheduling or
// renaming a reminder. Omitted fields are left unchanged.
type UpdateReminderRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=200"`
	RemindAt *string `json:"remind_at"`
}

// UpdateReminder updates a reminder's title and/or schedule.
func (h *ReminderHandler) UpdateReminder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reminderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var remindAt *time.Time
	if req.RemindAt != nil && *req.RemindAt != "" {
		parsed, parseErr := parseFlexibleTime(*req.RemindAt)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		remindAt = &parsed
	}

	reminder, err := h.reminderService.Update(userID, reminderID, req.Title, remindAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminder": reminder})
}

// CompleteReminder marks a reminder as completed without waiting for the
// sweep.
func (h *ReminderHandler) CompleteReminder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reminderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.reminderService.MarkCompleted(userID, reminderID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder completed"})
}

// DeleteReminder removes a reminder.
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reminderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.reminderService.Delete(userID, reminderID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder deleted successfully"})
}
