package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"life-dashboard/internal/logger"
	"life-dashboard/internal/model"
)

const taskOrder = "is_completed ASC, id DESC"

// TaskRepository handles CRUD and live queries for tasks.
type TaskRepository struct {
	table[model.Task]
}

func NewTaskRepository(db *gorm.DB, ch *changes, log *logger.Logger) *TaskRepository {
	return &TaskRepository{table: table[model.Task]{db: db, changes: ch, name: TableTasks, log: log}}
}

// Upsert inserts the task, or replaces the stored one with the same id. A new
// task gets its id assigned in place.
func (r *TaskRepository) Upsert(ctx context.Context, task *model.Task) error {
	normalizeTask(task)
	return r.upsert(ctx, task)
}

// Update saves every field of an existing task. A task that is no longer
// stored is not re-created; ErrNotFound is returned instead.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	normalizeTask(task)
	res := r.db.WithContext(ctx).Model(task).Select("*").Updates(task)
	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.changes.notify(TableTasks)
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, taskID uint) error {
	return r.delete(ctx, taskID)
}

func (r *TaskRepository) Clear(ctx context.Context) error {
	return r.clear(ctx)
}

func (r *TaskRepository) FindByID(ctx context.Context, taskID uint) (*model.Task, error) {
	return r.findByID(ctx, taskID)
}

// List returns all tasks, incomplete first, newest first.
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Order(taskOrder).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Search returns tasks whose text contains query, in List order.
func (r *TaskRepository) Search(ctx context.Context, query string) ([]model.Task, error) {
	var tasks []model.Task
	pattern := "%" + escapeLike(query) + "%"
	if err := r.db.WithContext(ctx).Where(`text LIKE ? ESCAPE '\'`, pattern).
		Order(taskOrder).
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	return tasks, nil
}

// Watch streams the tasks matching query, refreshed after every task write.
// A blank query streams all tasks.
func (r *TaskRepository) Watch(ctx context.Context, query string) <-chan []model.Task {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.watch(ctx, r.List)
	}
	return r.watch(ctx, func(ctx context.Context) ([]model.Task, error) {
		return r.Search(ctx, query)
	})
}

func normalizeTask(task *model.Task) {
	if task.DueDate != nil {
		due := task.DueDate.UTC()
		task.DueDate = &due
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
