package models

import "time"

// Reminder is a due-timestamped note delivered by the background sweep.
// A reminder becomes due once RemindAt passes; the sweep marks it
// completed after an attempted delivery, so delivery is at-least-once.
type Reminder struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      int64     `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"not null" json:"title"`
	RemindAt    time.Time `gorm:"column:reminder_datetime;not null;index" json:"remind_at"`
	CreatedAt   time.Time `json:"created_at"`
	IsCompleted bool      `gorm:"not null;default:false" json:"is_completed"`
}
