package models

import (
	"time"

	"github.com/shopspring/decimal"
)

var AccountTypes = map[string]bool{
	"checking": true,
	"savings":  true,
	"credit":   true,
	"cash":     true,
}

type Account struct {
	ID             int             `json:"id" db:"id"`
	UserID         int             `json:"user_id" db:"user_id"`
	Name           string          `json:"name" db:"name"`
	Type           string          `json:"type" db:"type"`
	Currency       string          `json:"currency" db:"currency"`
	OpeningBalance decimal.Decimal `json:"opening_balance" db:"opening_balance"`
	Balance        decimal.Decimal `json:"balance" db:"-"` // вычисляется из транзакций
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}
