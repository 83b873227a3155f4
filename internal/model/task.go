package model

import "time"

// Task is a to-do item with an optional reminder time.
type Task struct {
	ID          uint   `gorm:"primaryKey"`
	Text        string `gorm:"not null"`
	IsCompleted bool   `gorm:"not null;index"`
	DueDate     *time.Time
}

// HasPendingReminder reports whether the task should hold a reminder at now.
func (t Task) HasPendingReminder(now time.Time) bool {
	return t.DueDate != nil && !t.IsCompleted && t.DueDate.After(now)
}
