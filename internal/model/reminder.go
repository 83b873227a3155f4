package model

import "time"

// Reminder is a pending one-shot alarm for a task, persisted so it survives restarts.
type Reminder struct {
	TaskID uint      `gorm:"primaryKey;autoIncrement:false"`
	FireAt time.Time `gorm:"not null;index"`
	Title  string
	Text   string
}
