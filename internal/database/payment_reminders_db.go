package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/neofin/models"
)

const reminderColumns = `id, user_id, description, amount, due_date, notified`

func CreatePaymentReminder(ctx context.Context, db Querier, reminder *models.PaymentReminder) error {
	// Проверка на валидность даты
	if reminder.DueDate.Before(time.Now().Truncate(24 * time.Hour)) {
		return fmt.Errorf("%w: прошедшая дата напоминания", models.ErrValidation)
	}

	query := `
		INSERT INTO payment_reminders (user_id, description, amount, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := db.QueryRow(ctx, query,
		reminder.UserID,
		reminder.Description,
		reminder.Amount,
		reminder.DueDate).Scan(&reminder.ID)
	if err != nil {
		return fmt.Errorf("ошибка добавления напоминания: %w", err)
	}
	return nil
}

func GetPaymentReminderByID(ctx context.Context, db Querier, userID, reminderID int) (*models.PaymentReminder, error) {
	r := &models.PaymentReminder{}
	err := db.QueryRow(ctx, `SELECT `+reminderColumns+` FROM payment_reminders WHERE id = $1 AND user_id = $2`, reminderID, userID).
		Scan(&r.ID, &r.UserID, &r.Description, &r.Amount, &r.DueDate, &r.Notified)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения напоминания: %w",
			notFound(err, "напоминание с ID %d не найдено", reminderID))
	}
	return r, nil
}

func GetPaymentRemindersByUserID(ctx context.Context, db Querier, userID int) ([]models.PaymentReminder, error) {
	rows, err := db.Query(ctx, `SELECT `+reminderColumns+` FROM payment_reminders WHERE user_id = $1 ORDER BY due_date`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения напоминаний: %w", err)
	}
	return collectReminders(rows)
}

// GetDueReminders возвращает неотправленные напоминания со сроком до until включительно.
func GetDueReminders(ctx context.Context, db Querier, until time.Time) ([]models.PaymentReminder, error) {
	rows, err := db.Query(ctx, `SELECT `+reminderColumns+` FROM payment_reminders WHERE NOT notified AND due_date <= $1::date`, until)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения напоминаний: %w", err)
	}
	return collectReminders(rows)
}

func collectReminders(rows pgx.Rows) ([]models.PaymentReminder, error) {
	defer rows.Close()

	reminders := []models.PaymentReminder{}
	for rows.Next() {
		var r models.PaymentReminder
		if err := rows.Scan(&r.ID, &r.UserID, &r.Description, &r.Amount, &r.DueDate, &r.Notified); err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func MarkReminderNotified(ctx context.Context, db Querier, reminderID int) error {
	_, err := db.Exec(ctx, `UPDATE payment_reminders SET notified = true WHERE id = $1`, reminderID)
	if err != nil {
		return fmt.Errorf("ошибка обновления напоминания: %w", err)
	}
	return nil
}

func UpdatePaymentReminder(ctx context.Context, db Querier, reminder *models.PaymentReminder) error {
	query := `
		UPDATE payment_reminders
		SET description = $1, amount = $2, due_date = $3, notified = false
		WHERE id = $4 AND user_id = $5`

	tag, err := db.Exec(ctx, query, reminder.Description, reminder.Amount, reminder.DueDate, reminder.ID, reminder.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления напоминания: %w", err)
	}
	return checkAffected(tag, "напоминание с ID %d не найдено", reminder.ID)
}

func DeletePaymentReminder(ctx context.Context, db Querier, userID, reminderID int) error {
	tag, err := db.Exec(ctx, `DELETE FROM payment_reminders WHERE id = $1 AND user_id = $2`, reminderID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления напоминания: %w", err)
	}
	return checkAffected(tag, "напоминание с ID %d не найдено", reminderID)
}
