package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"life-dashboard/internal/logger"
	"life-dashboard/internal/model"
)

// ExpenseRepository handles expenses. Rows are created and deleted, never edited.
type ExpenseRepository struct {
	table[model.Expense]
	now func() time.Time
}

func NewExpenseRepository(db *gorm.DB, ch *changes, log *logger.Logger) *ExpenseRepository {
	return &ExpenseRepository{
		table: table[model.Expense]{db: db, changes: ch, name: TableExpenses, log: log},
		now:   time.Now,
	}
}

// Upsert stores the expense. A zero Date defaults to the current time.
func (r *ExpenseRepository) Upsert(ctx context.Context, expense *model.Expense) error {
	if expense.Date.IsZero() {
		expense.Date = r.now()
	}
	expense.Date = expense.Date.UTC()
	return r.upsert(ctx, expense)
}

func (r *ExpenseRepository) Delete(ctx context.Context, expenseID uint) error {
	return r.delete(ctx, expenseID)
}

func (r *ExpenseRepository) Clear(ctx context.Context) error {
	return r.clear(ctx)
}

// List returns all expenses, most recent first.
func (r *ExpenseRepository) List(ctx context.Context) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := r.db.WithContext(ctx).Order("date DESC, id DESC").Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

func (r *ExpenseRepository) Watch(ctx context.Context) <-chan []model.Expense {
	return r.watch(ctx, r.List)
}
