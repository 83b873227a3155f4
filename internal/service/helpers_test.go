package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"life-dashboard/internal/logger"
	"life-dashboard/internal/repository"
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"), logger.NewNop())
	require.NoError(t, err)
	store := repository.NewStore(db, logger.NewNop())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type delivered struct {
	key uint
	n   Notification
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []delivered
}

func (f *fakeNotifier) Notify(_ context.Context, key uint, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, delivered{key: key, n: n})
	return nil
}

func (f *fakeNotifier) all() []delivered {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]delivered(nil), f.sent...)
}

// newTestAlarms returns a running alarm service backed by the store's reminder table.
func newTestAlarms(t *testing.T, store *repository.Store) (*AlarmService, *fakeNotifier) {
	t.Helper()
	scheduler := NewSchedulerService(time.UTC)
	notifier := &fakeNotifier{}
	alarms := NewAlarmService(scheduler, store.Reminders, notifier, logger.NewNop())
	scheduler.Start()
	t.Cleanup(scheduler.Stop)
	return alarms, notifier
}

// settle waits until sub has been quiet for a moment and returns the last value.
func settle[T any](t *testing.T, sub <-chan T) T {
	t.Helper()
	var last T
	got := false
	deadline := time.After(3 * time.Second)
	for {
		select {
		case v, ok := <-sub:
			require.True(t, ok, "stream closed")
			last, got = v, true
		case <-time.After(150 * time.Millisecond):
			require.True(t, got, "no emission")
			return last
		case <-deadline:
			t.Fatal("stream never settled")
		}
	}
}
