package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"life-dashboard/internal/model"
	"life-dashboard/internal/observable"
	"life-dashboard/internal/repository"
)

// Dashboard is the summary view shown on the home screen.
type Dashboard struct {
	PendingTasks      int
	SpentToday        decimal.Decimal
	SpentThisWeek     decimal.Decimal
	WeekStart         model.WeekDay
	CategoryTotals    []CategoryTotal
	DailyGoal         *model.Goal
	DailyGoalTimeLeft string
	CurrencySymbol    string
}

// SpentTodayLabel renders today's spend in the configured currency.
func (d Dashboard) SpentTodayLabel() string {
	return FormatAmount(d.SpentToday, d.CurrencySymbol)
}

func (d Dashboard) SpentThisWeekLabel() string {
	return FormatAmount(d.SpentThisWeek, d.CurrencySymbol)
}

func (d Dashboard) sameAs(o Dashboard) bool {
	if d.PendingTasks != o.PendingTasks ||
		!d.SpentToday.Equal(o.SpentToday) ||
		!d.SpentThisWeek.Equal(o.SpentThisWeek) ||
		d.WeekStart != o.WeekStart ||
		d.DailyGoalTimeLeft != o.DailyGoalTimeLeft ||
		d.CurrencySymbol != o.CurrencySymbol ||
		len(d.CategoryTotals) != len(o.CategoryTotals) {
		return false
	}
	for i := range d.CategoryTotals {
		if d.CategoryTotals[i].Category != o.CategoryTotals[i].Category ||
			!d.CategoryTotals[i].Total.Equal(o.CategoryTotals[i].Total) {
			return false
		}
	}
	if d.DailyGoal == nil || o.DailyGoal == nil {
		return d.DailyGoal == nil && o.DailyGoal == nil
	}
	return d.DailyGoal.ID == o.DailyGoal.ID && d.DailyGoal.Text == o.DailyGoal.Text
}

// DashboardService recomputes the dashboard whenever tasks, expenses, goals or
// the currency and week start change. Time-dependent figures (today's spend,
// the goal countdown) are also refreshed on a clock tick.
type DashboardService struct {
	store   *repository.Store
	prefs   *PreferenceService
	loc     *time.Location
	now     func() time.Time
	refresh time.Duration

	view *observable.Subject[Dashboard]
}

func NewDashboardService(store *repository.Store, prefs *PreferenceService, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{
		store:   store,
		prefs:   prefs,
		loc:     loc,
		now:     time.Now,
		refresh: time.Minute,
		view: observable.NewSubjectWithValue(Dashboard{
			SpentToday:     decimal.Zero,
			SpentThisWeek:  decimal.Zero,
			WeekStart:      DefaultWeekStartDay,
			CurrencySymbol: DefaultCurrencySymbol,
		}),
	}
}

func (s *DashboardService) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *DashboardService) run(ctx context.Context) {
	tasksCh := s.store.Tasks.Watch(ctx, "")
	expensesCh := s.store.Expenses.Watch(ctx)
	goalsCh := s.store.Goals.Watch(ctx)
	currencyCh := s.prefs.CurrencySymbol().Subscribe(ctx)
	weekStartCh := s.prefs.WeekStartDay().Subscribe(ctx)

	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()

	var (
		tasks     []model.Task
		expenses  []model.Expense
		goals     []model.Goal
		currency  = DefaultCurrencySymbol
		weekStart = DefaultWeekStartDay
	)
	build := func() Dashboard {
		return BuildDashboard(tasks, expenses, goals, currency, weekStart, s.now().In(s.loc))
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Only the clock moved; skip when nothing visible changed.
			d := build()
			if current, _ := s.view.Value(); !d.sameAs(current) {
				s.view.Publish(d)
			}
			continue
		case v, ok := <-tasksCh:
			if !ok {
				return
			}
			tasks = v
		case v, ok := <-expensesCh:
			if !ok {
				return
			}
			expenses = v
		case v, ok := <-goalsCh:
			if !ok {
				return
			}
			goals = v
		case v, ok := <-currencyCh:
			if !ok {
				return
			}
			currency = v
		case v, ok := <-weekStartCh:
			if !ok {
				return
			}
			weekStart = v
		}
		s.view.Publish(build())
	}
}

func (s *DashboardService) Subscribe(ctx context.Context) <-chan Dashboard {
	return s.view.Subscribe(ctx)
}

func (s *DashboardService) Snapshot() Dashboard {
	d, _ := s.view.Value()
	return d
}

// BuildDashboard derives the dashboard from the current lists at now.
func BuildDashboard(tasks []model.Task, expenses []model.Expense, goals []model.Goal, currency string, weekStart model.WeekDay, now time.Time) Dashboard {
	d := Dashboard{
		SpentToday:     TotalForDay(expenses, now),
		SpentThisWeek:  TotalSince(expenses, weekStart.StartOfWeek(now)),
		WeekStart:      weekStart,
		CategoryTotals: CategoryTotals(expenses),
		CurrencySymbol: currency,
	}
	for _, t := range tasks {
		if !t.IsCompleted {
			d.PendingTasks++
		}
	}
	if goal, ok := ActiveGoal(goals, model.GoalDaily); ok {
		d.DailyGoal = &goal
		d.DailyGoalTimeLeft = goal.TimeLeft(now)
	}
	return d
}
