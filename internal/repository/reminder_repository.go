package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"life-dashboard/internal/model"
)

// ReminderRepository persists pending alarms so they can be restored after a restart.
type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Save stores the reminder, replacing any earlier one for the same task.
func (r *ReminderRepository) Save(ctx context.Context, reminder *model.Reminder) error {
	reminder.FireAt = reminder.FireAt.UTC()
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(reminder).Error; err != nil {
		return fmt.Errorf("save reminder: %w", err)
	}
	return nil
}

func (r *ReminderRepository) Delete(ctx context.Context, taskID uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Reminder{}, taskID).Error; err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	return nil
}

func (r *ReminderRepository) DeleteAll(ctx context.Context) error {
	if err := clearTable[model.Reminder](r.db.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete reminders: %w", err)
	}
	return nil
}

// ListPending returns every stored reminder, earliest first.
func (r *ReminderRepository) ListPending(ctx context.Context) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).Order("fire_at ASC").Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return reminders, nil
}
