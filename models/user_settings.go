package models

import "github.com/shopspring/decimal"

type UserSettings struct {
	UserID              int             `json:"user_id"`
	Currency            string          `json:"currency"`
	LowBalanceThreshold decimal.Decimal `json:"low_balance_threshold"`
	MaxPerHour          int             `json:"max_per_hour"`
	MaxPerDay           int             `json:"max_per_day"`
	DisabledTypes       []string        `json:"disabled_types"`
	QuietHoursStart     *int            `json:"quiet_hours_start,omitempty"` // час 0-23
	QuietHoursEnd       *int            `json:"quiet_hours_end,omitempty"`
}

func DefaultUserSettings(userID int) UserSettings {
	return UserSettings{
		UserID:              userID,
		Currency:            "USD",
		LowBalanceThreshold: decimal.NewFromInt(100),
		MaxPerHour:          5,
		MaxPerDay:           20,
	}
}

// TypeDisabled сообщает, отключены ли уведомления данного типа.
func (s UserSettings) TypeDisabled(kind string) bool {
	for _, t := range s.DisabledTypes {
		if t == kind {
			return true
		}
	}
	return false
}

// InQuietHours проверяет, попадает ли час в "тихие часы" (интервал может переходить через полночь).
func (s UserSettings) InQuietHours(hour int) bool {
	if s.QuietHoursStart == nil || s.QuietHoursEnd == nil {
		return false
	}
	start, end := *s.QuietHoursStart, *s.QuietHoursEnd
	if start == end {
		return false
	}
	if start < end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}
