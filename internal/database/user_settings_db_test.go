package database_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/neofin/internal/database"
)

func TestUserSettingsDefaultsAndUpsert(t *testing.T) {
	c, tx := testTx(t)
	userID := testUser()

	s, err := database.GetUserSettingsByID(c, tx, userID)
	if err != nil {
		t.Fatalf("ошибка получения настроек: %v", err)
	}
	if s.MaxPerHour != 5 || s.MaxPerDay != 20 || s.Currency != "USD" {
		t.Errorf("неверные настройки по умолчанию: %+v", s)
	}

	start, end := 22, 7
	s.Currency = "EUR"
	s.MaxPerHour = 2
	s.DisabledTypes = []string{"budget_warning"}
	s.QuietHoursStart = &start
	s.QuietHoursEnd = &end
	s.LowBalanceThreshold = decimal.NewFromInt(50)
	if err := database.UpsertUserSettings(c, tx, s); err != nil {
		t.Fatalf("ошибка сохранения настроек: %v", err)
	}

	got, err := database.GetUserSettingsByID(c, tx, userID)
	if err != nil {
		t.Fatalf("ошибка получения настроек: %v", err)
	}
	if got.Currency != "EUR" || got.MaxPerHour != 2 || !got.TypeDisabled("budget_warning") {
		t.Errorf("настройки не сохранены: %+v", got)
	}
	if got.QuietHoursStart == nil || *got.QuietHoursStart != 22 || !got.InQuietHours(23) {
		t.Errorf("тихие часы не сохранены: %+v", got)
	}

	// Повторный upsert перезаписывает значения.
	got.QuietHoursStart, got.QuietHoursEnd = nil, nil
	got.DisabledTypes = nil
	if err := database.UpsertUserSettings(c, tx, got); err != nil {
		t.Fatalf("ошибка сохранения настроек: %v", err)
	}
	again, _ := database.GetUserSettingsByID(c, tx, userID)
	if again.QuietHoursStart != nil || len(again.DisabledTypes) != 0 {
		t.Errorf("настройки не перезаписаны: %+v", again)
	}
}
