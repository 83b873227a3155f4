package model

import (
	"errors"
	"strings"
	"time"
)

// Preference is a single persisted setting.
type Preference struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

// WeekDay is the day a week starts on.
type WeekDay string

const (
	Saturday WeekDay = "Saturday"
	Sunday   WeekDay = "Sunday"
	Monday   WeekDay = "Monday"
)

var ErrInvalidWeekDay = errors.New("invalid week start day")

// WeekDays lists the supported week start days in display order.
var WeekDays = []WeekDay{Saturday, Sunday, Monday}

// ParseWeekDay accepts a day name case-insensitively.
func ParseWeekDay(raw string) (WeekDay, error) {
	for _, d := range WeekDays {
		if strings.EqualFold(strings.TrimSpace(raw), string(d)) {
			return d, nil
		}
	}
	return "", ErrInvalidWeekDay
}

// Weekday maps to the time package constant.
func (d WeekDay) Weekday() time.Weekday {
	switch d {
	case Sunday:
		return time.Sunday
	case Monday:
		return time.Monday
	default:
		return time.Saturday
	}
}

// StartOfWeek returns midnight of the most recent week start on or before t.
func (d WeekDay) StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) - int(d.Weekday()) + 7) % 7
	y, m, day := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, day, 0, 0, 0, 0, t.Location())
}
