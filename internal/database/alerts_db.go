package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/neofin/models"
)

// InsertAlert сохраняет алерт, если алерта с тем же dedupe_key у пользователя еще нет.
// Возвращает false, если такой алерт уже существовал.
func InsertAlert(ctx context.Context, db Querier, alert *models.Alert) (bool, error) {
	query := `
		INSERT INTO alerts (user_id, kind, severity, title, message, dedupe_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, dedupe_key) DO NOTHING
		RETURNING id, created_at`
	err := db.QueryRow(ctx, query, alert.UserID, alert.Kind, alert.Severity, alert.Title, alert.Message, alert.DedupeKey).
		Scan(&alert.ID, &alert.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("ошибка при добавлении алерта: %w", err)
	}
	return true, nil
}

func GetAlertsByUserID(ctx context.Context, db Querier, userID int, includeDismissed bool) ([]models.Alert, error) {
	query := `
		SELECT id, user_id, kind, severity, title, message, dedupe_key, is_dismissed, created_at
		FROM alerts
		WHERE user_id = $1 AND ($2 OR NOT is_dismissed)
		ORDER BY created_at DESC`
	rows, err := db.Query(ctx, query, userID, includeDismissed)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении алертов: %w", err)
	}
	defer rows.Close()

	alerts := []models.Alert{}
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.UserID, &a.Kind, &a.Severity, &a.Title, &a.Message, &a.DedupeKey, &a.IsDismissed, &a.CreatedAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func DismissAlert(ctx context.Context, db Querier, userID, alertID int) error {
	tag, err := db.Exec(ctx, `UPDATE alerts SET is_dismissed = true WHERE id = $1 AND user_id = $2`, alertID, userID)
	if err != nil {
		return fmt.Errorf("ошибка при скрытии алерта: %w", err)
	}
	return checkAffected(tag, "алерт с ID %d не найден", alertID)
}
