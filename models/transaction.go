package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

type Transaction struct {
	ID          int             `json:"id" db:"id"`
	UserID      int             `json:"user_id" db:"user_id"`
	AccountID   *int            `json:"account_id,omitempty" db:"account_id"`
	CardID      *int            `json:"card_id,omitempty" db:"card_id"`
	ContactID   *int            `json:"contact_id,omitempty" db:"contact_id"`
	CategoryID  *int            `json:"category_id,omitempty" db:"category_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Type        string          `json:"type" db:"type"` // "income" или "expense"
	Description string          `json:"description" db:"description"`
	Date        time.Time       `json:"date" db:"transaction_date"`
	Currency    string          `json:"currency" db:"currency"`
	ExternalID  *string         `json:"external_id,omitempty" db:"external_id"` // FITID из банковской выписки
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// Signed возвращает сумму со знаком: расходы отрицательные.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionFilter ограничивает выборку транзакций пользователя.
type TransactionFilter struct {
	UserID     int
	AccountID  *int
	CategoryID *int
	Type       string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}
