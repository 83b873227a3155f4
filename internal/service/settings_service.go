package service

import (
	"context"

	"life-dashboard/internal/logger"
	"life-dashboard/internal/model"
	"life-dashboard/internal/observable"
)

// DataClearer wipes every user table atomically.
type DataClearer interface {
	ClearAll(ctx context.Context) error
}

// SettingsService exposes preferences and the destructive reset.
type SettingsService struct {
	prefs     *PreferenceService
	store     DataClearer
	reminders *ReminderService
	log       *logger.Logger
}

func NewSettingsService(prefs *PreferenceService, store DataClearer, reminders *ReminderService, log *logger.Logger) *SettingsService {
	return &SettingsService{prefs: prefs, store: store, reminders: reminders, log: log}
}

func (s *SettingsService) DarkTheme() observable.View[bool] { return s.prefs.DarkTheme() }

func (s *SettingsService) CurrencySymbol() observable.View[string] { return s.prefs.CurrencySymbol() }

func (s *SettingsService) WeekStartDay() observable.View[model.WeekDay] { return s.prefs.WeekStartDay() }

func (s *SettingsService) SetDarkTheme(ctx context.Context, enabled bool) error {
	return s.prefs.SetDarkTheme(ctx, enabled)
}

func (s *SettingsService) SetCurrencySymbol(ctx context.Context, symbol string) error {
	return s.prefs.SetCurrencySymbol(ctx, symbol)
}

func (s *SettingsService) SetWeekStartDay(ctx context.Context, day string) error {
	return s.prefs.SetWeekStartDay(ctx, day)
}

// ClearAllData empties tasks, expenses, notes and goals, then drops every
// pending reminder. Preferences are kept.
func (s *SettingsService) ClearAllData(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return err
	}
	if err := s.reminders.CancelAll(ctx); err != nil {
		s.log.Warnw("cancel reminders after clear", "error", err)
	}
	s.log.Infow("all data cleared")
	return nil
}
