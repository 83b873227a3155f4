package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single spending entry. Amount is kept as an exact decimal.
type Expense struct {
	ID          uint            `gorm:"primaryKey"`
	Description string          `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:text;not null"`
	Category    string          `gorm:"not null;index"`
	Date        time.Time       `gorm:"not null;index"`
}
