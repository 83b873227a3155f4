package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"life-dashboard/internal/logger"
	"life-dashboard/internal/observable"
)

var ErrNotFound = errors.New("record not found")

// table holds the write and watch plumbing shared by the entity repositories.
type table[T any] struct {
	db      *gorm.DB
	changes *changes
	name    string
	log     *logger.Logger
}

// upsert inserts row, or replaces every column of the row with the same primary key.
func (t *table[T]) upsert(ctx context.Context, row *T) error {
	if err := t.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error; err != nil {
		return fmt.Errorf("upsert %s: %w", t.name, err)
	}
	t.changes.notify(t.name)
	return nil
}

func (t *table[T]) delete(ctx context.Context, id uint) error {
	var row T
	if err := t.db.WithContext(ctx).Delete(&row, id).Error; err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	t.changes.notify(t.name)
	return nil
}

func (t *table[T]) clear(ctx context.Context) error {
	if err := clearTable[T](t.db.WithContext(ctx)); err != nil {
		return fmt.Errorf("clear %s: %w", t.name, err)
	}
	t.changes.notify(t.name)
	return nil
}

func (t *table[T]) findByID(ctx context.Context, id uint) (*T, error) {
	var row T
	err := t.db.WithContext(ctx).First(&row, id).Error
	switch {
	case err == nil:
		return &row, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("find %s: %w", t.name, err)
	}
}

// watch streams the result of load, refreshed after every committed write to the table.
func (t *table[T]) watch(ctx context.Context, load func(context.Context) ([]T, error)) <-chan []T {
	return observable.Watch(ctx, t.changes.of(t.name), load, func(err error) {
		t.log.Errorw("reload query", "table", t.name, "error", err)
	})
}

// clearTable deletes every row of T's table using db, which may be a transaction.
func clearTable[T any](db *gorm.DB) error {
	var row T
	return db.Where("1 = 1").Delete(&row).Error
}
