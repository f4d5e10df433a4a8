package database

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal" // Для точных денежных значений
	"github.com/valeriaulyamaeva/neofin/models"
)

const goalColumns = `id, user_id, name, amount, current_amount, target_date, status, created_at`

// CreateGoal добавляет новую цель в базу данных
func CreateGoal(ctx context.Context, db Querier, goal *models.Goal) error {
	if goal.Status == "" {
		goal.Status = models.GoalActive
	}
	query := `
		INSERT INTO goals (user_id, name, amount, current_amount, target_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := db.QueryRow(ctx, query,
		goal.UserID,
		goal.Name,
		goal.Amount,
		goal.CurrentAmount,
		goal.TargetDate,
		goal.Status).Scan(&goal.ID, &goal.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении цели: %w", err)
	}
	return nil
}

// GetGoalByID извлекает цель по ID
func GetGoalByID(ctx context.Context, db Querier, userID, goalID int) (*models.Goal, error) {
	goal := &models.Goal{}
	err := db.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID).Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Name,
		&goal.Amount,
		&goal.CurrentAmount,
		&goal.TargetDate,
		&goal.Status,
		&goal.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении цели: %w", notFound(err, "цель с ID %d не найдена", goalID))
	}
	return goal, nil
}

// GetAllGoals извлекает все цели пользователя
func GetAllGoals(ctx context.Context, db Querier, userID int) ([]models.Goal, error) {
	rows, err := db.Query(ctx, `SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY target_date`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении целей: %w", err)
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		var goal models.Goal
		if err := rows.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.Amount, &goal.CurrentAmount, &goal.TargetDate, &goal.Status, &goal.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// UpdateGoal обновляет информацию о цели
func UpdateGoal(ctx context.Context, db Querier, goal *models.Goal) error {
	query := `
		UPDATE goals
		SET name = $1, amount = $2, current_amount = $3, target_date = $4
		WHERE id = $5 AND user_id = $6`
	tag, err := db.Exec(ctx, query, goal.Name, goal.Amount, goal.CurrentAmount, goal.TargetDate, goal.ID, goal.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления цели: %w", err)
	}
	return checkAffected(tag, "цель с ID %d не найдена", goal.ID)
}

// DeleteGoal удаляет цель по ID
func DeleteGoal(ctx context.Context, db Querier, userID, goalID int) error {
	tag, err := db.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления цели: %w", err)
	}
	return checkAffected(tag, "цель с ID %d не найдена", goalID)
}

// AddProgressToGoal увеличивает накопленную сумму и отмечает цель достигнутой.
func AddProgressToGoal(ctx context.Context, db Querier, userID, goalID int, progress decimal.Decimal) (*models.Goal, error) {
	query := `
		UPDATE goals
		SET current_amount = current_amount + $1,
			status = CASE WHEN current_amount + $1 >= amount THEN 'achieved' ELSE status END
		WHERE id = $2 AND user_id = $3
		RETURNING ` + goalColumns
	goal := &models.Goal{}
	err := db.QueryRow(ctx, query, progress, goalID, userID).Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Name,
		&goal.Amount,
		&goal.CurrentAmount,
		&goal.TargetDate,
		&goal.Status,
		&goal.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка при добавлении прогресса к цели: %w", notFound(err, "цель с ID %d не найдена", goalID))
	}
	return goal, nil
}
