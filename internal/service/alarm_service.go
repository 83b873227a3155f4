package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"life-dashboard/internal/logger"
	"life-dashboard/internal/model"
	"life-dashboard/internal/repository"
)

// AlarmScheduler registers one-shot timed notifications keyed by id.
type AlarmScheduler interface {
	Schedule(ctx context.Context, id uint, fireAt time.Time, n Notification) error
	Cancel(ctx context.Context, id uint) error
	CancelAll(ctx context.Context) error
}

type alarmEntry struct {
	entryID cron.EntryID
	gen     uint64
}

// AlarmService keeps at most one pending alarm per id. Alarms are persisted so
// Restore can re-register them after a restart.
type AlarmService struct {
	scheduler *SchedulerService
	repo      *repository.ReminderRepository
	notifier  Notifier
	log       *logger.Logger
	now       func() time.Time

	mu      sync.Mutex
	gen     uint64
	entries map[uint]alarmEntry
}

func NewAlarmService(scheduler *SchedulerService, repo *repository.ReminderRepository, notifier Notifier, log *logger.Logger) *AlarmService {
	return &AlarmService{
		scheduler: scheduler,
		repo:      repo,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
		entries:   make(map[uint]alarmEntry),
	}
}

// Schedule replaces any pending alarm for id. A fireAt that is not in the future is ignored.
func (s *AlarmService) Schedule(ctx context.Context, id uint, fireAt time.Time, n Notification) error {
	if !fireAt.After(s.now()) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Save(ctx, &model.Reminder{TaskID: id, FireAt: fireAt, Title: n.Title, Text: n.Text}); err != nil {
		return err
	}
	s.register(id, fireAt, n)
	s.log.Debugw("alarm scheduled", "id", id, "fire_at", fireAt)
	return nil
}

// Cancel drops the pending alarm for id, if any.
func (s *AlarmService) Cancel(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[id]; ok {
		s.scheduler.Remove(entry.entryID)
		delete(s.entries, id)
	}
	return s.repo.Delete(ctx, id)
}

func (s *AlarmService) CancelAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, entry := range s.entries {
		s.scheduler.Remove(entry.entryID)
		delete(s.entries, id)
	}
	return s.repo.DeleteAll(ctx)
}

// Pending reports whether an alarm is registered for id.
func (s *AlarmService) Pending(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[id]
	return ok
}

func (s *AlarmService) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Restore re-registers persisted alarms. Alarms that came due while the
// process was down are delivered right away.
func (s *AlarmService) Restore(ctx context.Context) error {
	reminders, err := s.repo.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("restore alarms: %w", err)
	}

	now := s.now()
	var missed []model.Reminder
	s.mu.Lock()
	for _, r := range reminders {
		if r.FireAt.After(now) {
			s.register(r.TaskID, r.FireAt, Notification{Title: r.Title, Text: r.Text})
			continue
		}
		if err := s.repo.Delete(ctx, r.TaskID); err != nil {
			s.log.Errorw("drop missed alarm", "id", r.TaskID, "error", err)
		}
		missed = append(missed, r)
	}
	s.mu.Unlock()

	for _, r := range missed {
		s.deliver(ctx, r.TaskID, Notification{Title: r.Title, Text: r.Text})
	}
	s.log.Infow("alarms restored", "pending", len(reminders)-len(missed), "missed", len(missed))
	return nil
}

// register must be called with s.mu held.
func (s *AlarmService) register(id uint, fireAt time.Time, n Notification) {
	if entry, ok := s.entries[id]; ok {
		s.scheduler.Remove(entry.entryID)
	}
	s.gen++
	gen := s.gen
	entryID := s.scheduler.ScheduleOnce(fireAt, func() { s.fire(id, gen, n) })
	s.entries[id] = alarmEntry{entryID: entryID, gen: gen}
}

func (s *AlarmService) fire(id uint, gen uint64, n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.mu.Lock()
	entry, ok := s.entries[id]
	if !ok || entry.gen != gen {
		// Replaced or cancelled after cron picked it up.
		s.mu.Unlock()
		return
	}
	delete(s.entries, id)
	s.scheduler.Remove(entry.entryID)
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Errorw("drop fired alarm", "id", id, "error", err)
	}
	s.mu.Unlock()

	s.deliver(ctx, id, n)
}

func (s *AlarmService) deliver(ctx context.Context, id uint, n Notification) {
	if err := s.notifier.Notify(ctx, id, n); err != nil {
		s.log.WithError(err).Errorw("deliver notification", "id", id)
	}
}
