package models

import "time"

const (
	AlertBudgetWarning  = "budget_warning"
	AlertBudgetExceeded = "budget_exceeded"
	AlertAnomaly        = "anomaly"
	AlertRecurringDue   = "recurring_due"
	AlertSpendingTrend  = "spending_trend"
	AlertLowBalance     = "low_balance"
)

const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

type Alert struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	Kind        string    `json:"kind" db:"kind"`
	Severity    string    `json:"severity" db:"severity"`
	Title       string    `json:"title" db:"title"`
	Message     string    `json:"message" db:"message"`
	DedupeKey   string    `json:"dedupe_key" db:"dedupe_key"`
	IsDismissed bool      `json:"is_dismissed" db:"is_dismissed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
