package scheduler

import (
	"context"
	"time"

	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/models"
)

// Store is the data the periodic jobs read and write.
type Store interface {
	ActiveUserIDs(ctx context.Context, since time.Time) ([]int, error)
	GetUserSettings(ctx context.Context, userID int) (*models.UserSettings, error)
	GetBudgetStatuses(ctx context.Context, userID int, at time.Time) ([]models.BudgetStatus, error)
	GetTransactions(ctx context.Context, userID int, since time.Time) ([]models.Transaction, error)
	GetAccounts(ctx context.Context, userID int) ([]models.Account, error)
	InsertAlert(ctx context.Context, alert *models.Alert) (bool, error)
	GetDueReminders(ctx context.Context, until time.Time) ([]models.PaymentReminder, error)
	MarkReminderNotified(ctx context.Context, reminderID int) error
	ArchiveTransactions(ctx context.Context, olderThan time.Time) (int64, error)
	RenewBudgets(ctx context.Context, now time.Time) (int, error)
}

type PgStore struct {
	DB database.Querier
}

func (p PgStore) ActiveUserIDs(ctx context.Context, since time.Time) ([]int, error) {
	return database.ActiveUserIDs(ctx, p.DB, since)
}

func (p PgStore) GetUserSettings(ctx context.Context, userID int) (*models.UserSettings, error) {
	return database.GetUserSettingsByID(ctx, p.DB, userID)
}

func (p PgStore) GetBudgetStatuses(ctx context.Context, userID int, at time.Time) ([]models.BudgetStatus, error) {
	return database.GetBudgetStatuses(ctx, p.DB, userID, at)
}

func (p PgStore) GetTransactions(ctx context.Context, userID int, since time.Time) ([]models.Transaction, error) {
	return database.GetTransactionsByUserID(ctx, p.DB, userID, since)
}

func (p PgStore) GetAccounts(ctx context.Context, userID int) ([]models.Account, error) {
	return database.GetAccountsByUserID(ctx, p.DB, userID)
}

func (p PgStore) InsertAlert(ctx context.Context, alert *models.Alert) (bool, error) {
	return database.InsertAlert(ctx, p.DB, alert)
}

func (p PgStore) GetDueReminders(ctx context.Context, until time.Time) ([]models.PaymentReminder, error) {
	return database.GetDueReminders(ctx, p.DB, until)
}

func (p PgStore) MarkReminderNotified(ctx context.Context, reminderID int) error {
	return database.MarkReminderNotified(ctx, p.DB, reminderID)
}

func (p PgStore) ArchiveTransactions(ctx context.Context, olderThan time.Time) (int64, error) {
	return database.MoveTransactionsToHistory(ctx, p.DB, olderThan)
}

func (p PgStore) RenewBudgets(ctx context.Context, now time.Time) (int, error) {
	return database.UpdateExpiredBudgets(ctx, p.DB, now)
}
