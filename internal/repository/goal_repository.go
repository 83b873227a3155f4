package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"life-dashboard/internal/logger"
	"life-dashboard/internal/model"
)

// GoalRepository handles goals. Ordering and grouping are left to callers.
type GoalRepository struct {
	table[model.Goal]
	now func() time.Time
}

func NewGoalRepository(db *gorm.DB, ch *changes, log *logger.Logger) *GoalRepository {
	return &GoalRepository{
		table: table[model.Goal]{db: db, changes: ch, name: TableGoals, log: log},
		now:   time.Now,
	}
}

// Upsert stores the goal. A zero CreationDate defaults to the current time.
func (r *GoalRepository) Upsert(ctx context.Context, goal *model.Goal) error {
	if goal.CreationDate.IsZero() {
		goal.CreationDate = r.now()
	}
	goal.CreationDate = goal.CreationDate.UTC()
	return r.upsert(ctx, goal)
}

func (r *GoalRepository) Delete(ctx context.Context, goalID uint) error {
	return r.delete(ctx, goalID)
}

func (r *GoalRepository) Clear(ctx context.Context) error {
	return r.clear(ctx)
}

func (r *GoalRepository) List(ctx context.Context) ([]model.Goal, error) {
	var goals []model.Goal
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

func (r *GoalRepository) Watch(ctx context.Context) <-chan []model.Goal {
	return r.watch(ctx, r.List)
}
