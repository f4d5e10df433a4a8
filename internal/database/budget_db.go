package database

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/neofin/models"
)

const budgetColumns = `id, user_id, category_id, amount, period, start_date, end_date, currency`

func CreateBudget(ctx context.Context, db Querier, budget *models.Budget) error {
	if budget.Currency == "" {
		budget.Currency = "USD"
	}
	query := `
		INSERT INTO budgets (user_id, category_id, amount, period, start_date, end_date, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := db.QueryRow(ctx, query,
		budget.UserID,
		budget.CategoryID,
		budget.Amount,
		budget.Period,
		budget.StartDate,
		budget.EndDate,
		budget.Currency).Scan(&budget.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении бюджета: %w", err)
	}
	return nil
}

func GetBudgetByID(ctx context.Context, db Querier, userID, budgetID int) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1 AND user_id = $2`

	budget := &models.Budget{}
	err := db.QueryRow(ctx, query, budgetID, userID).Scan(
		&budget.ID,
		&budget.UserID,
		&budget.CategoryID,
		&budget.Amount,
		&budget.Period,
		&budget.StartDate,
		&budget.EndDate,
		&budget.Currency,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении бюджета: %w",
			notFound(err, "бюджет с ID %d не найден", budgetID))
	}
	return budget, nil
}

func GetBudgetsByUserID(ctx context.Context, db Querier, userID int) ([]models.Budget, error) {
	rows, err := db.Query(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1 ORDER BY start_date`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении бюджетов: %w", err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Period, &b.StartDate, &b.EndDate, &b.Currency); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// GetBudgetStatuses возвращает бюджеты, действующие на дату at, с суммой расходов за их период.
func GetBudgetStatuses(ctx context.Context, db Querier, userID int, at time.Time) ([]models.BudgetStatus, error) {
	query := `
		SELECT b.id, b.user_id, b.category_id, b.amount, b.period, b.start_date, b.end_date, b.currency,
			c.name,
			COALESCE((
				SELECT SUM(t.amount) FROM transactions t
				WHERE t.user_id = b.user_id AND t.category_id = b.category_id AND t.type = 'expense'
				AND t.transaction_date >= b.start_date AND t.transaction_date < b.end_date + 1
			), 0) AS spent
		FROM budgets b
		JOIN categories c ON c.id = b.category_id AND c.user_id = b.user_id
		WHERE b.user_id = $1 AND b.start_date <= $2 AND b.end_date >= $2::date
		ORDER BY c.name`

	rows, err := db.Query(ctx, query, userID, at)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении состояния бюджетов: %w", err)
	}
	defer rows.Close()

	statuses := []models.BudgetStatus{}
	for rows.Next() {
		var (
			b        models.Budget
			category string
			spent    decimal.Decimal
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Period, &b.StartDate, &b.EndDate, &b.Currency, &category, &spent); err != nil {
			return nil, err
		}
		statuses = append(statuses, models.NewBudgetStatus(b, category, spent))
	}
	return statuses, rows.Err()
}

func UpdateBudget(ctx context.Context, db Querier, budget *models.Budget) error {
	query := `
		UPDATE budgets
		SET category_id = $1, amount = $2, period = $3, start_date = $4, end_date = $5, currency = $6
		WHERE id = $7 AND user_id = $8`

	tag, err := db.Exec(ctx, query,
		budget.CategoryID,
		budget.Amount,
		budget.Period,
		budget.StartDate,
		budget.EndDate,
		budget.Currency,
		budget.ID,
		budget.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления бюджета: %w", err)
	}
	return checkAffected(tag, "бюджет с ID %d не найден", budget.ID)
}

func DeleteBudget(ctx context.Context, db Querier, userID, budgetID int) error {
	tag, err := db.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, budgetID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления бюджета: %w", err)
	}
	return checkAffected(tag, "бюджет с ID %d не найден", budgetID)
}

// UpdateExpiredBudgets продлевает истекшие бюджеты на следующий период,
// пока период не покроет дату now.
func UpdateExpiredBudgets(ctx context.Context, db Querier, now time.Time) (int, error) {
	rows, err := db.Query(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE end_date < $1::date`, now)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения просроченных бюджетов: %w", err)
	}
	var expired []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Period, &b.StartDate, &b.EndDate, &b.Currency); err != nil {
			rows.Close()
			return 0, err
		}
		expired = append(expired, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, b := range expired {
		renewed := b
		for renewed.EndDate.Before(today) {
			renewed = renewed.Next()
		}
		if err := UpdateBudget(ctx, db, &renewed); err != nil {
			return 0, fmt.Errorf("ошибка продления бюджета с ID %d: %w", b.ID, err)
		}
	}
	return len(expired), nil
}
