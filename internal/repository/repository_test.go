package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"life-dashboard/internal/logger"
	"life-dashboard/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), logger.NewNop())
	require.NoError(t, err)
	store := NewStore(db, logger.NewNop())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// latest drains ch until it has been quiet for a moment and returns the last value.
func latest[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	var last T
	got := false
	for {
		select {
		case v, ok := <-ch:
			require.True(t, ok, "stream closed")
			last, got = v, true
		case <-time.After(100 * time.Millisecond):
			require.True(t, got, "no emission")
			return last
		}
	}
}

func taskIDs(tasks []model.Task) []uint {
	ids := make([]uint, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	return ids
}

func TestTaskWatchOrdersIncompleteFirst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := newTestStore(t)

	stream := store.Tasks.Watch(ctx, "")
	assert.Empty(t, latest(t, stream))

	var tasks []*model.Task
	for _, text := range []string{"buy milk", "call mom", "pay rent", "water plants"} {
		task := &model.Task{Text: text}
		require.NoError(t, store.Tasks.Upsert(ctx, task))
		require.NotZero(t, task.ID)
		tasks = append(tasks, task)
	}

	tasks[3].IsCompleted = true
	require.NoError(t, store.Tasks.Update(ctx, tasks[3]))
	require.NoError(t, store.Tasks.Delete(ctx, tasks[1].ID))

	got := latest(t, stream)
	assert.Equal(t, []uint{tasks[2].ID, tasks[0].ID, tasks[3].ID}, taskIDs(got))
	assert.True(t, got[2].IsCompleted)
}

func TestTaskUpsertReplacesByID(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	task := &model.Task{Text: "draft"}
	require.NoError(t, store.Tasks.Upsert(ctx, task))

	due := time.Date(2030, time.January, 2, 9, 30, 0, 0, time.FixedZone("X", 3600))
	replacement := &model.Task{ID: task.ID, Text: "final", DueDate: &due}
	require.NoError(t, store.Tasks.Upsert(ctx, replacement))

	got, err := store.Tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Text)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))

	all, err := store.Tasks.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = store.Tasks.FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskUpdateDoesNotRecreateDeleted(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	task := &model.Task{Text: "gone"}
	require.NoError(t, store.Tasks.Upsert(ctx, task))
	require.NoError(t, store.Tasks.Delete(ctx, task.ID))

	task.IsCompleted = true
	assert.ErrorIs(t, store.Tasks.Update(ctx, task), ErrNotFound)

	all, err := store.Tasks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTaskSearchMatchesSubstring(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for _, text := range []string{"Buy milk", "milkshake", "100% done", "bread"} {
		require.NoError(t, store.Tasks.Upsert(ctx, &model.Task{Text: text}))
	}

	got, err := store.Tasks.Search(ctx, "milk")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "milkshake", got[0].Text)
	assert.Equal(t, "Buy milk", got[1].Text)

	got, err = store.Tasks.Search(ctx, "0%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100% done", got[0].Text)
}

func TestExpensesKeepExactAmountsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	older := &model.Expense{Description: "bus", Amount: decimal.RequireFromString("0.10"), Category: "Transit",
		Date: time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)}
	newer := &model.Expense{Description: "lunch", Amount: decimal.RequireFromString("12.35"), Category: "Food",
		Date: time.Date(2024, time.March, 2, 13, 0, 0, 0, time.UTC)}
	require.NoError(t, store.Expenses.Upsert(ctx, older))
	require.NoError(t, store.Expenses.Upsert(ctx, newer))

	undated := &model.Expense{Description: "coffee", Amount: decimal.NewFromInt(3), Category: "Food"}
	require.NoError(t, store.Expenses.Upsert(ctx, undated))
	assert.False(t, undated.Date.IsZero())

	got, err := store.Expenses.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "coffee", got[0].Description)
	assert.Equal(t, "lunch", got[1].Description)
	assert.True(t, got[2].Amount.Equal(decimal.RequireFromString("0.1")))
}

func TestNotesNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := &model.Note{Title: "a", Content: "one"}
	second := &model.Note{Title: "b", Content: "two"}
	require.NoError(t, store.Notes.Upsert(ctx, first))
	require.NoError(t, store.Notes.Upsert(ctx, second))

	got, err := store.Notes.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, []string{got[0].Title, got[1].Title})
}

func seedAllTables(t *testing.T, store *Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Tasks.Upsert(ctx, &model.Task{Text: "task"}))
	require.NoError(t, store.Expenses.Upsert(ctx, &model.Expense{Description: "x", Amount: decimal.NewFromInt(1), Category: "c"}))
	require.NoError(t, store.Notes.Upsert(ctx, &model.Note{Title: "t", Content: "c"}))
	require.NoError(t, store.Goals.Upsert(ctx, &model.Goal{Text: "g", Type: model.GoalDaily}))
}

func tableCounts(t *testing.T, store *Store) []int64 {
	t.Helper()
	var counts []int64
	for _, m := range []interface{}{&model.Task{}, &model.Expense{}, &model.Note{}, &model.Goal{}} {
		var n int64
		require.NoError(t, store.db.Model(m).Count(&n).Error)
		counts = append(counts, n)
	}
	return counts
}

func TestClearAllEmptiesEveryTable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := newTestStore(t)
	seedAllTables(t, store)

	goals := store.Goals.Watch(ctx)
	require.Len(t, latest(t, goals), 1)

	require.NoError(t, store.ClearAll(ctx))

	assert.Equal(t, []int64{0, 0, 0, 0}, tableCounts(t, store))
	assert.Empty(t, latest(t, goals))
}

func TestClearAllIsAtomicOnFailure(t *testing.T) {
	store := newTestStore(t)
	seedAllTables(t, store)

	// Fail on the third table, after tasks and expenses were already deleted inside the transaction.
	err := store.db.Callback().Delete().Before("gorm:delete").Register("test:fail_notes", func(tx *gorm.DB) {
		if tx.Statement.Table == TableNotes {
			_ = tx.AddError(errors.New("injected failure"))
		}
	})
	require.NoError(t, err)

	err = store.ClearAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected failure")

	assert.Equal(t, []int64{1, 1, 1, 1}, tableCounts(t, store))
}

func TestSchemaVersionChangeResetsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versioned.db")

	db, err := NewDB(path, logger.NewNop())
	require.NoError(t, err)
	store := NewStore(db, logger.NewNop())
	seedAllTables(t, store)
	require.NoError(t, db.Save(&schemaMeta{ID: 1, Version: SchemaVersion - 1}).Error)
	require.NoError(t, store.Close())

	db, err = NewDB(path, logger.NewNop())
	require.NoError(t, err)
	store = NewStore(db, logger.NewNop())
	defer store.Close()

	assert.Equal(t, []int64{0, 0, 0, 0}, tableCounts(t, store))

	var meta schemaMeta
	require.NoError(t, db.First(&meta, 1).Error)
	assert.Equal(t, SchemaVersion, meta.Version)
}

func TestPreferencesRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, ok, err := store.Preferences.Get(ctx, "currency_symbol")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Preferences.Set(ctx, "currency_symbol", "EUR"))
	require.NoError(t, store.Preferences.Set(ctx, "currency_symbol", "USD"))

	value, ok, err := store.Preferences.Get(ctx, "currency_symbol")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "USD", value)
}

func TestRemindersReplacePerTask(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	base := time.Date(2030, time.June, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Reminders.Save(ctx, &model.Reminder{TaskID: 7, FireAt: base.Add(time.Hour), Text: "old"}))
	require.NoError(t, store.Reminders.Save(ctx, &model.Reminder{TaskID: 7, FireAt: base.Add(2 * time.Hour), Text: "new"}))
	require.NoError(t, store.Reminders.Save(ctx, &model.Reminder{TaskID: 3, FireAt: base, Text: "first"}))

	pending, err := store.Reminders.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, uint(3), pending[0].TaskID)
	assert.Equal(t, "new", pending[1].Text)

	require.NoError(t, store.Reminders.Delete(ctx, 3))
	require.NoError(t, store.Reminders.Delete(ctx, 42))
	pending, err = store.Reminders.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	require.NoError(t, store.Reminders.DeleteAll(ctx))
	pending, err = store.Reminders.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
