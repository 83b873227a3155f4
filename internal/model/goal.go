package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// GoalType is the period a goal covers.
type GoalType string

const (
	GoalDaily   GoalType = "Daily"
	GoalMonthly GoalType = "Monthly"
)

var ErrInvalidGoalType = errors.New("invalid goal type")

// GoalTypes lists supported types in section order.
var GoalTypes = []GoalType{GoalDaily, GoalMonthly}

// ParseGoalType accepts a type name case-insensitively.
func ParseGoalType(raw string) (GoalType, error) {
	for _, t := range GoalTypes {
		if strings.EqualFold(strings.TrimSpace(raw), string(t)) {
			return t, nil
		}
	}
	return "", ErrInvalidGoalType
}

// SectionOrder ranks goal types for grouped display; unknown types sort last.
func (t GoalType) SectionOrder() int {
	switch t {
	case GoalDaily:
		return 0
	case GoalMonthly:
		return 1
	default:
		return 2
	}
}

// Goal is a periodic target. CreationDate anchors the active period.
type Goal struct {
	ID           uint      `gorm:"primaryKey"`
	Text         string    `gorm:"not null"`
	Type         GoalType  `gorm:"not null;index"`
	CreationDate time.Time `gorm:"not null"`
}

// PeriodEnd is the last second of the goal's period, evaluated in loc.
// ok is false for types without a period.
func (g Goal) PeriodEnd(loc *time.Location) (end time.Time, ok bool) {
	created := g.CreationDate.In(loc)
	year, month, day := created.Date()
	switch g.Type {
	case GoalDaily:
		return time.Date(year, month, day, 23, 59, 59, 0, loc), true
	case GoalMonthly:
		return time.Date(year, month, daysInMonth(month, year), 23, 59, 59, 0, loc), true
	default:
		return time.Time{}, false
	}
}

// TimeLeft renders the countdown label shown next to a goal.
func (g Goal) TimeLeft(now time.Time) string {
	end, ok := g.PeriodEnd(now.Location())
	if !ok {
		return ""
	}
	diff := end.Sub(now)
	if diff <= 0 {
		return "Time's up!"
	}
	if g.Type == GoalDaily {
		hours := int(diff.Hours())
		minutes := int(diff.Minutes()) % 60
		return fmt.Sprintf("%dh %dm left", hours, minutes)
	}
	if days := int(diff.Hours() / 24); days > 0 {
		return fmt.Sprintf("%dd left", days)
	}
	return "Last day!"
}

func daysInMonth(month time.Month, year int) int {
	// Move to next month, roll back a day.
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
