// Package sweeper runs the periodic scan that delivers due reminders.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"finassist/internal/notify"
	"finassist/internal/services"
)

// Result contains the outcome of a single sweep cycle.
type Result struct {
	Due       int
	Delivered int
	Failed    int
	Duration  time.Duration
}

// Sweeper fetches due reminders, delivers them through the notifier, and
// marks them completed. Delivery is at-least-once: a reminder is marked
// only after a send attempt succeeds, so a crash or a failed mark leaves
// it due and it is redelivered on the next cycle.
type Sweeper struct {
	reminders services.ReminderServicer
	notifier  notify.Notifier
	logger    *zap.SugaredLogger
}

// New creates a Sweeper.
func New(reminders services.ReminderServicer, notifier notify.Notifier, logger *zap.SugaredLogger) *Sweeper {
	return &Sweeper{
		reminders: reminders,
		notifier:  notifier,
		logger:    logger,
	}
}

// Run executes one sweep cycle. Per-reminder failures are logged and
// skipped; they never abort the remaining batch.
func (s *Sweeper) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{}

	due, err := s.reminders.Due(time.Now())
	if err != nil {
		return nil, fmt.Errorf("fetching due reminders: %w", err)
	}
	result.Due = len(due)

	for _, reminder := range due {
		text := fmt.Sprintf("Reminder: %s (due %s)", reminder.Title, reminder.RemindAt.Format("02.01.2006 15:04"))

		if err := s.notifier.Send(ctx, reminder.UserID, text); err != nil {
			result.Failed++
			s.logger.Warnw("reminder delivery failed",
				"reminder_id", reminder.ID,
				"user_id", reminder.UserID,
				"error", err,
			)
			continue
		}

		if err := s.reminders.MarkCompleted(reminder.UserID, reminder.ID); err != nil {
			// Delivered but not marked: the reminder stays due and will be
			// sent again next cycle.
			result.Failed++
			s.logger.Warnw("failed to mark reminder completed",
				"reminder_id", reminder.ID,
				"user_id", reminder.UserID,
				"error", err,
			)
			continue
		}

		result.Delivered++
	}

	result.Duration = time.Since(start)
	return result, nil
}

// Start runs sweep cycles on the given interval until the context is
// cancelled.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Infow("reminder sweeper started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder sweeper stopped")
			return
		case <-ticker.C:
			result, err := s.Run(ctx)
			if err != nil {
				s.logger.Errorw("reminder sweep failed", "error", err)
				continue
			}
			if result.Due > 0 {
				s.logger.Infow("reminder sweep completed",
					"due", result.Due,
					"delivered", result.Delivered,
					"failed", result.Failed,
					"duration", result.Duration.String(),
				)
			}
		}
	}
}
