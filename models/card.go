package models

import "github.com/shopspring/decimal"

type Card struct {
	ID          int             `json:"id" db:"id"`
	UserID      int             `json:"user_id" db:"user_id"`
	AccountID   int             `json:"account_id" db:"account_id"`
	Name        string          `json:"name" db:"name"`
	Last4       string          `json:"last4" db:"last4"`
	CreditLimit decimal.Decimal `json:"credit_limit" db:"credit_limit"`
	ClosingDay  int             `json:"closing_day" db:"closing_day"`
	DueDay      int             `json:"due_day" db:"due_day"`
}
