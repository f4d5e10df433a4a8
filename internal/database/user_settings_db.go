package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/neofin/models"
)

// GetUserSettingsByID возвращает настройки пользователя или значения по умолчанию.
func GetUserSettingsByID(ctx context.Context, db Querier, userID int) (*models.UserSettings, error) {
	query := `
		SELECT user_id, currency, low_balance_threshold, max_per_hour, max_per_day, disabled_types,
			quiet_hours_start, quiet_hours_end
		FROM usersettings WHERE user_id = $1`

	var s models.UserSettings
	err := db.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.Currency, &s.LowBalanceThreshold, &s.MaxPerHour, &s.MaxPerDay, &s.DisabledTypes,
		&s.QuietHoursStart, &s.QuietHoursEnd,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		defaults := models.DefaultUserSettings(userID)
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения настроек пользователя: %w", err)
	}
	return &s, nil
}

func UpsertUserSettings(ctx context.Context, db Querier, s *models.UserSettings) error {
	if s.DisabledTypes == nil {
		s.DisabledTypes = []string{}
	}
	query := `
		INSERT INTO usersettings (user_id, currency, low_balance_threshold, max_per_hour, max_per_day,
			disabled_types, quiet_hours_start, quiet_hours_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			currency = EXCLUDED.currency,
			low_balance_threshold = EXCLUDED.low_balance_threshold,
			max_per_hour = EXCLUDED.max_per_hour,
			max_per_day = EXCLUDED.max_per_day,
			disabled_types = EXCLUDED.disabled_types,
			quiet_hours_start = EXCLUDED.quiet_hours_start,
			quiet_hours_end = EXCLUDED.quiet_hours_end`

	_, err := db.Exec(ctx, query, s.UserID, s.Currency, s.LowBalanceThreshold, s.MaxPerHour, s.MaxPerDay,
		s.DisabledTypes, s.QuietHoursStart, s.QuietHoursEnd)
	if err != nil {
		return fmt.Errorf("ошибка обновления настроек пользователя: %w", err)
	}
	return nil
}
