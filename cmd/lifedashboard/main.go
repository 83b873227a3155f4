package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"life-dashboard/internal/bot"
	"life-dashboard/internal/config"
	"life-dashboard/internal/logger"
	"life-dashboard/internal/metrics"
	"life-dashboard/internal/repository"
	"life-dashboard/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logg.Sync()

	if err := run(ctx, cfg, logg); err != nil && !errors.Is(err, context.Canceled) {
		logg.Fatalw("life dashboard stopped with error", "error", err)
	}
	logg.Info("Shutdown complete.")
}

func run(ctx context.Context, cfg config.Config, logg *logger.Logger) error {
	db, err := repository.NewDB(cfg.DatabaseURL, logg)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	store := repository.NewStore(db, logg)
	defer store.Close()

	var notifier service.Notifier = service.NewLogNotifier(logg)
	if cfg.TelegramToken != "" {
		telegram, err := bot.New(cfg.TelegramToken, cfg.TelegramChatID, logg.WithFields("component", "bot"))
		if err != nil {
			return fmt.Errorf("bot: %w", err)
		}
		notifier = telegram
	}

	m := metrics.New()
	notifier = m.Instrument(notifier)

	scheduler := service.NewSchedulerService(cfg.Location)
	alarms := service.NewAlarmService(scheduler, store.Reminders, notifier, logg.WithFields("component", "alarms"))
	m.TrackPendingAlarms(alarms.PendingCount)
	scheduler.Start()
	defer scheduler.Stop()

	if err := alarms.Restore(ctx); err != nil {
		return err
	}

	prefs, err := service.NewPreferenceService(ctx, store.Preferences)
	if err != nil {
		return fmt.Errorf("preferences: %w", err)
	}
	reminders := service.NewReminderService(alarms)

	tasks := service.NewTaskService(store.Tasks, reminders, logg.WithFields("component", "tasks"))
	expenses := service.NewExpenseService(store.Expenses)
	notes := service.NewNoteService(store.Notes)
	goals := service.NewGoalService(store.Goals)
	dashboard := service.NewDashboardService(store, prefs, cfg.Location)

	tasks.Start(ctx)
	expenses.Start(ctx)
	notes.Start(ctx)
	goals.Start(ctx)
	dashboard.Start(ctx)

	if cfg.SummaryTime != "" {
		summary := service.NewSummaryService(store, prefs, notifier, cfg.Location)
		if _, err := scheduler.ScheduleDaily(cfg.SummaryTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := summary.Send(jobCtx, time.Now()); err != nil {
				logg.Errorw("daily summary", "error", err)
			}
		}); err != nil {
			return fmt.Errorf("schedule summary: %w", err)
		}
	}

	go logDashboard(ctx, dashboard, logg)

	if cfg.MetricsAddr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.MetricsAddr, logg.WithFields("component", "metrics")); err != nil {
				logg.Errorw("metrics", "error", err)
			}
		}()
	}

	logg.Infow("Life dashboard started.", "database", cfg.DatabaseURL)
	<-ctx.Done()
	return ctx.Err()
}

// logDashboard traces dashboard changes; the presentation layer subscribes the same way.
func logDashboard(ctx context.Context, dashboard *service.DashboardService, logg *logger.Logger) {
	for d := range dashboard.Subscribe(ctx) {
		logg.Debugw("dashboard",
			"pending_tasks", d.PendingTasks,
			"spent_today", d.SpentTodayLabel(),
			"categories", len(d.CategoryTotals),
			"daily_goal_left", d.DailyGoalTimeLeft,
		)
	}
}
