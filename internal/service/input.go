package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"life-dashboard/internal/model"
)

// ErrInvalidInput is returned when user input is rejected before reaching the store.
var ErrInvalidInput = errors.New("invalid input")

var validate = validator.New()

func validateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// TaskInput represents data required to create a task.
type TaskInput struct {
	Text string `validate:"required"`
}

func (in *TaskInput) normalize() {
	in.Text = strings.TrimSpace(in.Text)
}

// Validate reports whether the input can be submitted.
func (in TaskInput) Validate() error {
	in.normalize()
	return validateStruct(in)
}

// ExpenseInput carries the raw form fields of a new expense. Amount is parsed
// as a decimal and must be positive.
type ExpenseInput struct {
	Description string `validate:"required"`
	Amount      string `validate:"required"`
	Category    string `validate:"required"`
}

func (in *ExpenseInput) normalize() {
	in.Description = strings.TrimSpace(in.Description)
	in.Amount = strings.TrimSpace(in.Amount)
	in.Category = strings.TrimSpace(in.Category)
}

func (in ExpenseInput) Validate() error {
	_, err := in.parse()
	return err
}

func (in ExpenseInput) parse() (decimal.Decimal, error) {
	in.normalize()
	if err := validateStruct(in); err != nil {
		return decimal.Zero, err
	}
	amount, err := decimal.NewFromString(in.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", ErrInvalidInput, in.Amount)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	return amount, nil
}

// NoteInput holds a new note.
type NoteInput struct {
	Title   string `validate:"required"`
	Content string `validate:"required"`
}

func (in *NoteInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
}

func (in NoteInput) Validate() error {
	in.normalize()
	return validateStruct(in)
}

// GoalInput holds a new goal. Type must be Daily or Monthly.
type GoalInput struct {
	Text string `validate:"required"`
	Type string `validate:"required"`
}

func (in *GoalInput) normalize() {
	in.Text = strings.TrimSpace(in.Text)
	in.Type = strings.TrimSpace(in.Type)
}

func (in GoalInput) Validate() error {
	_, err := in.parse()
	return err
}

func (in GoalInput) parse() (model.GoalType, error) {
	in.normalize()
	if err := validateStruct(in); err != nil {
		return "", err
	}
	goalType, err := model.ParseGoalType(in.Type)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return goalType, nil
}
