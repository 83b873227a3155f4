package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"life-dashboard/internal/model"
	"life-dashboard/internal/observable"
	"life-dashboard/internal/repository"
)

// ExpenseService holds the expense list view.
type ExpenseService struct {
	expenseRepo *repository.ExpenseRepository
	expenses    *observable.Subject[[]model.Expense]
}

func NewExpenseService(expenseRepo *repository.ExpenseRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		expenses:    observable.NewSubjectWithValue([]model.Expense{}),
	}
}

func (s *ExpenseService) Start(ctx context.Context) {
	go observable.Forward(ctx, s.expenseRepo.Watch(ctx), s.expenses)
}

func (s *ExpenseService) Subscribe(ctx context.Context) <-chan []model.Expense {
	return s.expenses.Subscribe(ctx)
}

func (s *ExpenseService) Snapshot() []model.Expense {
	expenses, _ := s.expenses.Value()
	return expenses
}

// Insert records an expense dated now.
func (s *ExpenseService) Insert(ctx context.Context, input ExpenseInput) (*model.Expense, error) {
	amount, err := input.parse()
	if err != nil {
		return nil, err
	}
	input.normalize()

	expense := model.Expense{
		Description: input.Description,
		Amount:      amount,
		Category:    input.Category,
	}
	if err := s.expenseRepo.Upsert(ctx, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, expense model.Expense) error {
	return s.expenseRepo.Delete(ctx, expense.ID)
}

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// CategoryTotals sums amounts per category, largest total first, ties by name.
func CategoryTotals(expenses []model.Expense) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}

	totals := make([]CategoryTotal, 0, len(sums))
	for category, total := range sums {
		totals = append(totals, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].Total.Cmp(totals[j].Total); c != 0 {
			return c > 0
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// TotalForDay sums the expenses dated on the same calendar day as day, in day's location.
func TotalForDay(expenses []model.Expense, day time.Time) decimal.Decimal {
	y, m, d := day.Date()
	total := decimal.Zero
	for _, e := range expenses {
		ey, em, ed := e.Date.In(day.Location()).Date()
		if ey == y && em == m && ed == d {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// TotalSince sums the expenses dated at or after start.
func TotalSince(expenses []model.Expense, start time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if !e.Date.Before(start) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// FormatAmount renders an amount with two fraction digits after the currency symbol.
func FormatAmount(amount decimal.Decimal, symbol string) string {
	if symbol == "" {
		return amount.StringFixed(2)
	}
	return symbol + " " + amount.StringFixed(2)
}
