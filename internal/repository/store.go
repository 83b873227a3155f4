package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"life-dashboard/internal/logger"
	"life-dashboard/internal/model"
)

// Store groups the entity repositories that share one database and one set of
// change notifications.
type Store struct {
	db      *gorm.DB
	changes *changes

	Tasks       *TaskRepository
	Expenses    *ExpenseRepository
	Notes       *NoteRepository
	Goals       *GoalRepository
	Preferences *PreferenceRepository
	Reminders   *ReminderRepository
}

func NewStore(db *gorm.DB, log *logger.Logger) *Store {
	ch := newChanges(TableTasks, TableExpenses, TableNotes, TableGoals)
	return &Store{
		db:          db,
		changes:     ch,
		Tasks:       NewTaskRepository(db, ch, log),
		Expenses:    NewExpenseRepository(db, ch, log),
		Notes:       NewNoteRepository(db, ch, log),
		Goals:       NewGoalRepository(db, ch, log),
		Preferences: NewPreferenceRepository(db),
		Reminders:   NewReminderRepository(db),
	}
}

// ClearAll empties tasks, expenses, notes and goals in one transaction. On
// error nothing is removed and no watcher is notified.
func (s *Store) ClearAll(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearTable[model.Task](tx); err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}
		if err := clearTable[model.Expense](tx); err != nil {
			return fmt.Errorf("clear expenses: %w", err)
		}
		if err := clearTable[model.Note](tx); err != nil {
			return fmt.Errorf("clear notes: %w", err)
		}
		if err := clearTable[model.Goal](tx); err != nil {
			return fmt.Errorf("clear goals: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	s.changes.notify(TableTasks, TableExpenses, TableNotes, TableGoals)
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
