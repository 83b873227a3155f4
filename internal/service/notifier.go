package service

import (
	"context"

	"life-dashboard/internal/logger"
)

// Notification is the user-visible payload of a reminder.
type Notification struct {
	Title string
	Text  string
}

// Notifier delivers notifications. Delivering twice with the same key replaces
// the earlier notification instead of adding a second one.
type Notifier interface {
	Notify(ctx context.Context, key uint, n Notification) error
}

// LogNotifier writes notifications to the log. Used when no chat is configured.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, key uint, msg Notification) error {
	n.log.Infow("notification", "key", key, "title", msg.Title, "text", msg.Text)
	return nil
}
