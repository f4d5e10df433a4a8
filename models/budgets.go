package models

import (
	"time"

	"github.com/shopspring/decimal"
)

var BudgetPeriods = map[string]bool{
	"weekly":  true,
	"monthly": true,
	"yearly":  true,
}

type Budget struct {
	ID         int             `json:"id" db:"id"`
	UserID     int             `json:"user_id" db:"user_id"`
	CategoryID int             `json:"category_id" db:"category_id"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Period     string          `json:"period" db:"period"`
	StartDate  time.Time       `json:"start_date" db:"start_date"`
	EndDate    time.Time       `json:"end_date" db:"end_date"`
	Currency   string          `json:"currency" db:"currency"`
}

// Next возвращает бюджет, сдвинутый на следующий период.
func (b Budget) Next() Budget {
	next := b
	next.StartDate = b.EndDate.AddDate(0, 0, 1)
	switch b.Period {
	case "weekly":
		next.EndDate = next.StartDate.AddDate(0, 0, 6)
	case "yearly":
		next.EndDate = next.StartDate.AddDate(1, 0, -1)
	default:
		next.EndDate = monthlyEnd(next.StartDate)
	}
	return next
}

// monthlyEnd returns the day before the same day of the next month, clamped
// to the last day of that month when it is shorter.
func monthlyEnd(start time.Time) time.Time {
	y, m, d := start.Date()
	last := time.Date(y, m+2, 0, 0, 0, 0, 0, start.Location()).Day()
	if d > last {
		hh, mm, ss := start.Clock()
		return time.Date(y, m+1, last, hh, mm, ss, start.Nanosecond(), start.Location())
	}
	return start.AddDate(0, 1, -1)
}

// BudgetStatus: бюджет вместе с фактическими расходами за период.
type BudgetStatus struct {
	Budget
	CategoryName string          `json:"category_name"`
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"`
	UsedPercent  float64         `json:"used_percent"`
}

func NewBudgetStatus(b Budget, categoryName string, spent decimal.Decimal) BudgetStatus {
	status := BudgetStatus{
		Budget:       b,
		CategoryName: categoryName,
		Spent:        spent,
		Remaining:    b.Amount.Sub(spent),
	}
	if b.Amount.IsPositive() {
		status.UsedPercent = spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}
	return status
}
