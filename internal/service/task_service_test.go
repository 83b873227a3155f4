package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"life-dashboard/internal/logger"
	"life-dashboard/internal/model"
	"life-dashboard/internal/repository"
)

func newTestTaskService(t *testing.T) (*TaskService, *AlarmService, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := newTestStore(t)
	alarms, _ := newTestAlarms(t, store)
	svc := NewTaskService(store.Tasks, NewReminderService(alarms), logger.NewNop())
	svc.Start(ctx)
	return svc, alarms, ctx
}

func texts(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Text)
	}
	return out
}

func TestTaskListSortedIncompleteFirst(t *testing.T) {
	svc, _, ctx := newTestTaskService(t)
	sub := svc.Subscribe(ctx)

	var created []*model.Task
	for _, text := range []string{"one", "two", "three", "four"} {
		task, err := svc.Insert(ctx, TaskInput{Text: text})
		require.NoError(t, err)
		created = append(created, task)
	}
	require.NoError(t, svc.ToggleCompleted(ctx, *created[2]))
	require.NoError(t, svc.Delete(ctx, *created[0]))

	got := settle(t, sub)
	assert.Equal(t, []string{"four", "two", "three"}, texts(got))
	assert.Equal(t, got, svc.Snapshot())
}

func TestTaskInsertRejectsBlankText(t *testing.T) {
	svc, _, ctx := newTestTaskService(t)

	_, err := svc.Insert(ctx, TaskInput{Text: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Error(t, TaskInput{}.Validate())
	assert.NoError(t, TaskInput{Text: "ok"}.Validate())
}

func TestTaskQueryLatestWins(t *testing.T) {
	svc, _, ctx := newTestTaskService(t)
	sub := svc.Subscribe(ctx)

	for _, text := range []string{"buy milk", "call mom", "milk the goat"} {
		_, err := svc.Insert(ctx, TaskInput{Text: text})
		require.NoError(t, err)
	}
	require.Len(t, settle(t, sub), 3)

	svc.SetQuery("milk")
	assert.Equal(t, []string{"milk the goat", "buy milk"}, texts(settle(t, sub)))

	svc.SetQuery("milk")
	svc.SetQuery("")
	assert.Equal(t, "", svc.Query())

	final := settle(t, sub)
	assert.Len(t, final, 3)

	// A later write re-emits the unfiltered list, never the superseded query.
	_, err := svc.Insert(ctx, TaskInput{Text: "walk dog"})
	require.NoError(t, err)
	assert.Equal(t, []string{"walk dog", "milk the goat", "call mom", "buy milk"}, texts(settle(t, sub)))
}

func TestTaskUpdateSchedulesAndCancelsReminder(t *testing.T) {
	svc, alarms, ctx := newTestTaskService(t)

	task, err := svc.Insert(ctx, TaskInput{Text: "dentist"})
	require.NoError(t, err)

	due := time.Now().Add(time.Hour)
	require.NoError(t, svc.SetDueDate(ctx, *task, &due))
	assert.True(t, alarms.Pending(task.ID))

	task.DueDate = &due
	require.NoError(t, svc.ToggleCompleted(ctx, *task))
	assert.False(t, alarms.Pending(task.ID), "completed tasks hold no reminder")

	require.NoError(t, svc.SetDueDate(ctx, *task, nil))
	assert.False(t, alarms.Pending(task.ID))
}

func TestTaskPastDueDateIsNotScheduled(t *testing.T) {
	svc, alarms, ctx := newTestTaskService(t)

	task, err := svc.Insert(ctx, TaskInput{Text: "yesterday"})
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, svc.SetDueDate(ctx, *task, &past))
	assert.False(t, alarms.Pending(task.ID))
}

func TestTaskDeleteCancelsPendingReminder(t *testing.T) {
	svc, alarms, ctx := newTestTaskService(t)

	task, err := svc.Insert(ctx, TaskInput{Text: "renew passport"})
	require.NoError(t, err)
	due := time.Now().Add(24 * time.Hour)
	task.DueDate = &due
	require.NoError(t, svc.Update(ctx, *task))
	require.True(t, alarms.Pending(task.ID))

	require.NoError(t, svc.Delete(ctx, *task))
	assert.False(t, alarms.Pending(task.ID))

	pending, err := alarms.repo.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestTaskUpdateAfterDeleteIsRejected(t *testing.T) {
	svc, alarms, ctx := newTestTaskService(t)

	task, err := svc.Insert(ctx, TaskInput{Text: "gone"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, *task))

	due := time.Now().Add(time.Hour)
	err = svc.SetDueDate(ctx, *task, &due)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, svc.ToggleCompleted(ctx, *task), repository.ErrNotFound)

	all, err := svc.taskRepo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.False(t, alarms.Pending(task.ID))

	pending, err := alarms.repo.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
