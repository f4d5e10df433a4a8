package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/models"
)

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	database.Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PgStore implements Store with the database package; inserts run in
// one transaction.
type PgStore struct {
	DB TxBeginner
}

func (p PgStore) GetAccount(ctx context.Context, userID, accountID int) (*models.Account, error) {
	return database.GetAccountByID(ctx, p.DB, userID, accountID)
}

func (p PgStore) GetCategories(ctx context.Context, userID int) ([]models.Category, error) {
	return database.GetCategoriesByUserID(ctx, p.DB, userID)
}

func (p PgStore) ExistingExternalIDs(ctx context.Context, userID, accountID int, ids []string) (map[string]bool, error) {
	return database.ExistingExternalIDs(ctx, p.DB, userID, accountID, ids)
}

func (p PgStore) InsertTransactions(ctx context.Context, txns []models.Transaction) (int, error) {
	if len(txns) == 0 {
		return 0, nil
	}
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		rollbackCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tx.Rollback(rollbackCtx)
	}()

	inserted, err := database.InsertTransactions(ctx, tx, txns)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}
