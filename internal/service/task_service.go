package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"life-dashboard/internal/logger"
	"life-dashboard/internal/model"
	"life-dashboard/internal/observable"
	"life-dashboard/internal/repository"
)

// TaskService holds the task list view and its search query.
type TaskService struct {
	taskRepo  *repository.TaskRepository
	reminders *ReminderService
	log       *logger.Logger

	query *observable.Subject[string]
	tasks *observable.Subject[[]model.Task]
}

func NewTaskService(taskRepo *repository.TaskRepository, reminders *ReminderService, log *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		reminders: reminders,
		log:       log,
		query:     observable.NewSubjectWithValue(""),
		tasks:     observable.NewSubjectWithValue([]model.Task{}),
	}
}

// Start keeps the view bound to the store until ctx is done. Each query
// change cancels the store subscription of the previous query before the next
// one is opened, so a superseded query never reaches the view.
func (s *TaskService) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *TaskService) run(ctx context.Context) {
	queries := s.query.Subscribe(ctx)
	cancel := func() {}
	defer func() { cancel() }()

	var results <-chan []model.Task
	for {
		select {
		case <-ctx.Done():
			return
		case q, ok := <-queries:
			if !ok {
				return
			}
			cancel()
			var subCtx context.Context
			subCtx, cancel = context.WithCancel(ctx)
			results = s.taskRepo.Watch(subCtx, q)
		case list, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			s.tasks.Publish(list)
		}
	}
}

// SetQuery switches the view to tasks whose text contains query; blank shows all.
func (s *TaskService) SetQuery(query string) {
	s.query.Publish(query)
}

func (s *TaskService) Query() string {
	q, _ := s.query.Value()
	return q
}

func (s *TaskService) Subscribe(ctx context.Context) <-chan []model.Task {
	return s.tasks.Subscribe(ctx)
}

func (s *TaskService) Snapshot() []model.Task {
	tasks, _ := s.tasks.Value()
	return tasks
}

// Insert creates an open task without a due date.
func (s *TaskService) Insert(ctx context.Context, input TaskInput) (*model.Task, error) {
	input.normalize()
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	task := model.Task{Text: input.Text}
	if err := s.taskRepo.Upsert(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update saves the task and brings its reminder in line with the new state.
func (s *TaskService) Update(ctx context.Context, task model.Task) error {
	if strings.TrimSpace(task.Text) == "" {
		return fmt.Errorf("%w: task text is required", ErrInvalidInput)
	}
	if err := s.taskRepo.Update(ctx, &task); err != nil {
		return err
	}
	if err := s.reminders.Sync(ctx, task); err != nil {
		s.log.Warnw("sync reminder", "task_id", task.ID, "error", err)
	}
	return nil
}

// ToggleCompleted flips the completion flag.
func (s *TaskService) ToggleCompleted(ctx context.Context, task model.Task) error {
	task.IsCompleted = !task.IsCompleted
	return s.Update(ctx, task)
}

// SetDueDate sets or, with nil, clears the reminder time.
func (s *TaskService) SetDueDate(ctx context.Context, task model.Task, due *time.Time) error {
	task.DueDate = due
	return s.Update(ctx, task)
}

// Delete cancels any pending reminder and removes the task.
func (s *TaskService) Delete(ctx context.Context, task model.Task) error {
	if err := s.reminders.Cancel(ctx, task.ID); err != nil {
		s.log.Warnw("cancel reminder", "task_id", task.ID, "error", err)
	}
	return s.taskRepo.Delete(ctx, task.ID)
}
