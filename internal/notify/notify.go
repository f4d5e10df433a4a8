// Package notify stores user notifications subject to per-user settings
// and hourly/daily rate limits.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/models"
)

var (
	// ErrThrottled means the user already received the allowed number of
	// notifications in the last hour or day.
	ErrThrottled = errors.New("notification rate limit exceeded")
	// ErrMuted means the user disabled this type or it is quiet hours.
	ErrMuted = errors.New("notification muted by user settings")
)

// Store is the persistence the service needs.
type Store interface {
	GetUserSettings(ctx context.Context, userID int) (*models.UserSettings, error)
	CountNotificationsSince(ctx context.Context, userID int, since time.Time) (int, error)
	CreateNotification(ctx context.Context, n *models.Notification) error
}

type Service struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time

	locks sync.Map // userID -> *sync.Mutex
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

func (s *Service) userLock(userID int) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Send persists n unless the user's settings mute it or a rate limit is
// reached. The stored row is then published by the change feed.
func (s *Service) Send(ctx context.Context, n *models.Notification) error {
	if n.UserID <= 0 || n.Title == "" {
		return fmt.Errorf("%w: notification needs user_id and title", models.ErrValidation)
	}
	if n.Type == "" {
		n.Type = "general"
	}

	settings, err := s.store.GetUserSettings(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	now := s.now()
	if settings.TypeDisabled(n.Type) || settings.InQuietHours(now.UTC().Hour()) {
		s.log.Debug().Int("user_id", n.UserID).Str("type", n.Type).Msg("Notification muted")
		return ErrMuted
	}

	mu := s.userLock(n.UserID)
	mu.Lock()
	defer mu.Unlock()

	if settings.MaxPerHour > 0 {
		count, err := s.store.CountNotificationsSince(ctx, n.UserID, now.Add(-time.Hour))
		if err != nil {
			return fmt.Errorf("count notifications: %w", err)
		}
		if count >= settings.MaxPerHour {
			s.log.Info().Int("user_id", n.UserID).Int("last_hour", count).Msg("Notification throttled")
			return ErrThrottled
		}
	}
	if settings.MaxPerDay > 0 {
		count, err := s.store.CountNotificationsSince(ctx, n.UserID, now.Add(-24*time.Hour))
		if err != nil {
			return fmt.Errorf("count notifications: %w", err)
		}
		if count >= settings.MaxPerDay {
			s.log.Info().Int("user_id", n.UserID).Int("last_day", count).Msg("Notification throttled")
			return ErrThrottled
		}
	}

	if err := s.store.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	return nil
}

// PgStore implements Store on top of the database package.
type PgStore struct {
	DB database.Querier
}

func (p PgStore) GetUserSettings(ctx context.Context, userID int) (*models.UserSettings, error) {
	return database.GetUserSettingsByID(ctx, p.DB, userID)
}

func (p PgStore) CountNotificationsSince(ctx context.Context, userID int, since time.Time) (int, error) {
	return database.CountNotificationsSince(ctx, p.DB, userID, since)
}

func (p PgStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	return database.CreateNotification(ctx, p.DB, n)
}
