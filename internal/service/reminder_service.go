package service

import (
	"context"
	"strings"
	"time"

	"life-dashboard/internal/model"
)

const (
	reminderTitle       = "Task Reminder"
	reminderDefaultText = "You have a task due!"
)

// ReminderService decides whether a task should hold a pending alarm.
type ReminderService struct {
	alarms AlarmScheduler
	now    func() time.Time
}

func NewReminderService(alarms AlarmScheduler) *ReminderService {
	return &ReminderService{alarms: alarms, now: time.Now}
}

// Sync schedules an alarm for a task with a future due date that is still
// open, and cancels it otherwise.
func (s *ReminderService) Sync(ctx context.Context, task model.Task) error {
	if !task.HasPendingReminder(s.now()) {
		return s.alarms.Cancel(ctx, task.ID)
	}
	return s.alarms.Schedule(ctx, task.ID, *task.DueDate, reminderFor(task))
}

func (s *ReminderService) Cancel(ctx context.Context, taskID uint) error {
	return s.alarms.Cancel(ctx, taskID)
}

func (s *ReminderService) CancelAll(ctx context.Context) error {
	return s.alarms.CancelAll(ctx)
}

func reminderFor(task model.Task) Notification {
	text := strings.TrimSpace(task.Text)
	if text == "" {
		text = reminderDefaultText
	}
	return Notification{Title: reminderTitle, Text: text}
}
