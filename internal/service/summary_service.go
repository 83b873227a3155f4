package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"life-dashboard/internal/model"
	"life-dashboard/internal/repository"
)

// SummaryKey is the notification key of the daily digest. Task ids start at 1.
const SummaryKey uint = 0

// SummaryService builds a plain-text digest of the dashboard for daily notifications.
type SummaryService struct {
	store    *repository.Store
	prefs    *PreferenceService
	notifier Notifier
	loc      *time.Location
}

func NewSummaryService(store *repository.Store, prefs *PreferenceService, notifier Notifier, loc *time.Location) *SummaryService {
	if loc == nil {
		loc = time.Local
	}
	return &SummaryService{store: store, prefs: prefs, notifier: notifier, loc: loc}
}

// Send builds the digest for now and delivers it.
func (s *SummaryService) Send(ctx context.Context, now time.Time) error {
	text, err := s.DailySummary(ctx, now)
	if err != nil {
		return err
	}
	return s.notifier.Notify(ctx, SummaryKey, Notification{Title: "Today's Summary", Text: text})
}

func (s *SummaryService) DailySummary(ctx context.Context, now time.Time) (string, error) {
	now = now.In(s.loc)

	tasks, err := s.store.Tasks.List(ctx)
	if err != nil {
		return "", err
	}
	expenses, err := s.store.Expenses.List(ctx)
	if err != nil {
		return "", err
	}
	goals, err := s.store.Goals.List(ctx)
	if err != nil {
		return "", err
	}
	currency, _ := s.prefs.CurrencySymbol().Value()
	weekStart, _ := s.prefs.WeekStartDay().Value()

	dash := BuildDashboard(tasks, expenses, goals, currency, weekStart, now)

	var pending []model.Task
	for _, task := range tasks {
		if !task.IsCompleted {
			pending = append(pending, task)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		switch {
		case pending[i].DueDate == nil && pending[j].DueDate == nil:
			return pending[i].ID > pending[j].ID
		case pending[i].DueDate == nil:
			return false
		case pending[j].DueDate == nil:
			return true
		default:
			return pending[i].DueDate.Before(*pending[j].DueDate)
		}
	})

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("2006-01-02")))

	builder.WriteString(fmt.Sprintf("🔥 Pending tasks: %d\n", dash.PendingTasks))
	for _, task := range pending {
		builder.WriteString(formatTask(task, now))
	}

	builder.WriteString(fmt.Sprintf("\n💸 Spent today: %s\n", dash.SpentTodayLabel()))
	builder.WriteString(fmt.Sprintf("📆 Spent this week: %s\n", dash.SpentThisWeekLabel()))

	builder.WriteString("\n🎯 Daily goal: ")
	if dash.DailyGoal == nil {
		builder.WriteString("none set\n")
	} else {
		builder.WriteString(fmt.Sprintf("%s (%s)\n", strings.TrimSpace(dash.DailyGoal.Text), dash.DailyGoalTimeLeft))
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatTask(task model.Task, now time.Time) string {
	var sb strings.Builder

	icon := "🟢"
	if task.DueDate != nil {
		d := task.DueDate.In(now.Location())
		switch {
		case now.After(d):
			icon = "⚠️"
		case d.Sub(now) <= 48*time.Hour:
			icon = "⏳"
		}
	}
	sb.WriteString(fmt.Sprintf("%s %s", icon, strings.TrimSpace(task.Text)))

	if task.DueDate != nil {
		d := task.DueDate.In(now.Location())
		if now.After(d) {
			sb.WriteString(fmt.Sprintf(" (due %s, overdue)", d.Format("2006-01-02 15:04")))
		} else {
			sb.WriteString(fmt.Sprintf(" (due %s)", d.Format("2006-01-02 15:04")))
		}
	}

	sb.WriteByte('\n')
	return sb.String()
}
