package service

import (
	"context"
	"fmt"
	"strconv"

	"life-dashboard/internal/model"
	"life-dashboard/internal/observable"
)

const (
	keyDarkTheme      = "is_dark_theme"
	keyCurrencySymbol = "currency_symbol"
	keyWeekStartDay   = "week_start_day"

	DefaultCurrencySymbol = "BDT"
	DefaultWeekStartDay   = model.Saturday
)

// PreferenceBackend is durable string key/value storage.
type PreferenceBackend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// PreferenceService exposes each setting as an observable value with a default.
type PreferenceService struct {
	backend PreferenceBackend

	darkTheme *observable.Subject[bool]
	currency  *observable.Subject[string]
	weekStart *observable.Subject[model.WeekDay]
}

// NewPreferenceService loads the stored settings. Missing or malformed values fall back to defaults.
func NewPreferenceService(ctx context.Context, backend PreferenceBackend) (*PreferenceService, error) {
	s := &PreferenceService{backend: backend}

	darkTheme := false
	raw, ok, err := backend.Get(ctx, keyDarkTheme)
	if err != nil {
		return nil, err
	}
	if ok {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			darkTheme = parsed
		}
	}

	currency := DefaultCurrencySymbol
	raw, ok, err = backend.Get(ctx, keyCurrencySymbol)
	if err != nil {
		return nil, err
	}
	if ok {
		currency = raw
	}

	weekStart := DefaultWeekStartDay
	raw, ok, err = backend.Get(ctx, keyWeekStartDay)
	if err != nil {
		return nil, err
	}
	if ok {
		if parsed, err := model.ParseWeekDay(raw); err == nil {
			weekStart = parsed
		}
	}

	s.darkTheme = observable.NewSubjectWithValue(darkTheme)
	s.currency = observable.NewSubjectWithValue(currency)
	s.weekStart = observable.NewSubjectWithValue(weekStart)
	return s, nil
}

// DarkTheme and the other getters are read-only; changes go through the setters
// so they are persisted before they are published.
func (s *PreferenceService) DarkTheme() observable.View[bool] { return s.darkTheme.View() }

func (s *PreferenceService) CurrencySymbol() observable.View[string] { return s.currency.View() }

func (s *PreferenceService) WeekStartDay() observable.View[model.WeekDay] { return s.weekStart.View() }

func (s *PreferenceService) SetDarkTheme(ctx context.Context, enabled bool) error {
	if err := s.backend.Set(ctx, keyDarkTheme, strconv.FormatBool(enabled)); err != nil {
		return err
	}
	s.darkTheme.Publish(enabled)
	return nil
}

// SetCurrencySymbol stores the symbol verbatim.
func (s *PreferenceService) SetCurrencySymbol(ctx context.Context, symbol string) error {
	if err := s.backend.Set(ctx, keyCurrencySymbol, symbol); err != nil {
		return err
	}
	s.currency.Publish(symbol)
	return nil
}

func (s *PreferenceService) SetWeekStartDay(ctx context.Context, day string) error {
	parsed, err := model.ParseWeekDay(day)
	if err != nil {
		return fmt.Errorf("%w: %q", err, day)
	}
	if err := s.backend.Set(ctx, keyWeekStartDay, string(parsed)); err != nil {
		return err
	}
	s.weekStart.Publish(parsed)
	return nil
}
