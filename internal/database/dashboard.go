package database

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type MonthlyTotals struct {
	Month   int             `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// CurrencyBalance: суммарный остаток по счетам в одной валюте.
type CurrencyBalance struct {
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

// GetBalancesByCurrency суммирует остатки счетов пользователя по валютам.
func GetBalancesByCurrency(ctx context.Context, db Querier, userID int) ([]CurrencyBalance, error) {
	query := `
		SELECT a.currency, SUM(a.opening_balance + ` + accountMovement + `)
		FROM accounts a
		WHERE a.user_id = $1
		GROUP BY a.currency
		ORDER BY a.currency`
	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении общего баланса: %w", err)
	}
	defer rows.Close()

	var balances []CurrencyBalance
	for rows.Next() {
		var b CurrencyBalance
		if err := rows.Scan(&b.Currency, &b.Balance); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// GetMonthlyIncomeAndExpenses возвращает доходы и расходы по месяцам года,
// включая архивные транзакции.
func GetMonthlyIncomeAndExpenses(ctx context.Context, db Querier, userID, year int) ([]MonthlyTotals, error) {
	query := `
		SELECT EXTRACT(MONTH FROM transaction_date)::int AS month,
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS expense
		FROM (
			SELECT transaction_date, amount, type FROM transactions
			WHERE user_id = $1 AND EXTRACT(YEAR FROM transaction_date) = $2
			UNION ALL
			SELECT transaction_date, amount, type FROM transactionhistory
			WHERE user_id = $1 AND EXTRACT(YEAR FROM transaction_date) = $2
		) AS combined
		GROUP BY month
		ORDER BY month`

	rows, err := db.Query(ctx, query, userID, year)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении месячных доходов и расходов: %w", err)
	}
	defer rows.Close()

	result := []MonthlyTotals{}
	for rows.Next() {
		var m MonthlyTotals
		if err := rows.Scan(&m.Month, &m.Income, &m.Expense); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// GetCategoryWiseExpenses возвращает расходы по категориям за месяц, содержащий at.
func GetCategoryWiseExpenses(ctx context.Context, db Querier, userID int, at time.Time) ([]CategoryTotal, error) {
	query := `
		SELECT COALESCE(c.name, 'Без категории') AS category, SUM(t.amount) AS total
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1 AND t.type = 'expense'
		AND DATE_TRUNC('month', t.transaction_date) = DATE_TRUNC('month', $2::timestamptz)
		GROUP BY 1
		ORDER BY total DESC`
	rows, err := db.Query(ctx, query, userID, at)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении расходов по категориям: %w", err)
	}
	defer rows.Close()

	expenses := []CategoryTotal{}
	for rows.Next() {
		var c CategoryTotal
		if err := rows.Scan(&c.Category, &c.Total); err != nil {
			return nil, err
		}
		expenses = append(expenses, c)
	}
	return expenses, rows.Err()
}
