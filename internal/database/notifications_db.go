package database

import (
	"context"
	"fmt"
	"time"

	"github.com/valeriaulyamaeva/neofin/models"
)

func CreateNotification(ctx context.Context, db Querier, notification *models.Notification) error {
	if notification.Type == "" {
		notification.Type = "general"
	}
	query := `
		INSERT INTO notifications (user_id, type, title, message, is_read)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := db.QueryRow(ctx, query,
		notification.UserID,
		notification.Type,
		notification.Title,
		notification.Message,
		notification.IsRead).Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении уведомления: %w", err)
	}
	return nil
}

func GetNotificationByID(ctx context.Context, db Querier, userID, notificationID int) (*models.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, is_read, created_at
		FROM notifications
		WHERE id = $1 AND user_id = $2`

	n := &models.Notification{}
	err := db.QueryRow(ctx, query, notificationID, userID).Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении уведомления: %w",
			notFound(err, "уведомление с ID %d не найдено", notificationID))
	}
	return n, nil
}

func GetNotificationsByUserID(ctx context.Context, db Querier, userID int, unreadOnly bool) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1 AND (NOT $2 OR NOT is_read)
		ORDER BY created_at DESC`
	rows, err := db.Query(ctx, query, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения уведомлений: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// CountNotificationsSince считает уведомления пользователя, созданные после since.
func CountNotificationsSince(ctx context.Context, db Querier, userID int, since time.Time) (int, error) {
	var count int
	err := db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND created_at >= $2`, userID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета уведомлений: %w", err)
	}
	return count, nil
}

func MarkNotificationAsRead(ctx context.Context, db Querier, userID, notificationID int) error {
	tag, err := db.Exec(ctx, `UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return fmt.Errorf("ошибка пометки уведомления как прочитанного: %w", err)
	}
	return checkAffected(tag, "уведомление с ID %d не найдено", notificationID)
}

func MarkAllNotificationsAsRead(ctx context.Context, db Querier, userID int) (int64, error) {
	tag, err := db.Exec(ctx, `UPDATE notifications SET is_read = true WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		return 0, fmt.Errorf("ошибка пометки уведомлений как прочитанных: %w", err)
	}
	return tag.RowsAffected(), nil
}

func DeleteNotification(ctx context.Context, db Querier, userID, notificationID int) error {
	tag, err := db.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления уведомления: %w", err)
	}
	return checkAffected(tag, "уведомление с ID %d не найдено", notificationID)
}
