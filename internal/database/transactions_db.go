package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/valeriaulyamaeva/neofin/models"
)

const transactionColumns = `id, user_id, account_id, card_id, contact_id, category_id, amount, type,
	description, transaction_date, currency, external_id, created_at`

func scanTransaction(row pgx.Row, t *models.Transaction) error {
	return row.Scan(
		&t.ID,
		&t.UserID,
		&t.AccountID,
		&t.CardID,
		&t.ContactID,
		&t.CategoryID,
		&t.Amount,
		&t.Type,
		&t.Description,
		&t.Date,
		&t.Currency,
		&t.ExternalID,
		&t.CreatedAt,
	)
}

func collectTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, fmt.Errorf("ошибка чтения транзакции: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func CreateTransaction(ctx context.Context, db Querier, transaction *models.Transaction) error {
	if transaction.Currency == "" {
		transaction.Currency = "USD"
	}
	query := `
		INSERT INTO transactions (user_id, account_id, card_id, contact_id, category_id, amount, type,
			description, transaction_date, currency, external_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := db.QueryRow(ctx, query,
		transaction.UserID,
		transaction.AccountID,
		transaction.CardID,
		transaction.ContactID,
		transaction.CategoryID,
		transaction.Amount,
		transaction.Type,
		transaction.Description,
		transaction.Date,
		transaction.Currency,
		transaction.ExternalID).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении транзакции: %w", err)
	}
	return nil
}

func GetTransactionByID(ctx context.Context, db Querier, userID, transactionID int) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`

	transaction := &models.Transaction{}
	if err := scanTransaction(db.QueryRow(ctx, query, transactionID, userID), transaction); err != nil {
		return nil, fmt.Errorf("ошибка при получении транзакции: %w",
			notFound(err, "транзакция с ID %d не найдена", transactionID))
	}
	return transaction, nil
}

// GetTransactions возвращает транзакции пользователя по фильтру, новые сверху.
func GetTransactions(ctx context.Context, db Querier, filter models.TransactionFilter) ([]models.Transaction, error) {
	conds := []string{"user_id = $1"}
	args := []any{filter.UserID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.AccountID != nil {
		add("account_id = $%d", *filter.AccountID)
	}
	if filter.CategoryID != nil {
		add("category_id = $%d", *filter.CategoryID)
	}
	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if !filter.From.IsZero() {
		add("transaction_date >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("transaction_date < $%d", filter.To)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY transaction_date DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения транзакций: %w", err)
	}
	return collectTransactions(rows)
}

// GetTransactionsByUserID возвращает транзакции пользователя начиная с since.
func GetTransactionsByUserID(ctx context.Context, db Querier, userID int, since time.Time) ([]models.Transaction, error) {
	return GetTransactions(ctx, db, models.TransactionFilter{UserID: userID, From: since})
}

func UpdateTransaction(ctx context.Context, db Querier, transaction *models.Transaction) error {
	query := `
		UPDATE transactions
		SET account_id = $1, card_id = $2, contact_id = $3, category_id = $4, amount = $5, type = $6,
			description = $7, transaction_date = $8, currency = $9
		WHERE id = $10 AND user_id = $11`

	tag, err := db.Exec(ctx, query,
		transaction.AccountID,
		transaction.CardID,
		transaction.ContactID,
		transaction.CategoryID,
		transaction.Amount,
		transaction.Type,
		transaction.Description,
		transaction.Date,
		transaction.Currency,
		transaction.ID,
		transaction.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления транзакции: %w", err)
	}
	return checkAffected(tag, "транзакция с ID %d не найдена", transaction.ID)
}

func DeleteTransaction(ctx context.Context, db Querier, userID, transactionID int) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`

	tag, err := db.Exec(ctx, query, transactionID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления транзакции: %w", err)
	}
	return checkAffected(tag, "транзакция с ID %d не найдена", transactionID)
}

// ExistingExternalIDs возвращает те из ids, которые уже импортированы на счет.
func ExistingExternalIDs(ctx context.Context, db Querier, userID, accountID int, ids []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(ids) == 0 {
		return existing, nil
	}
	query := `
		SELECT external_id FROM transactions
		WHERE user_id = $1 AND account_id = $2 AND external_id = ANY($3)`
	rows, err := db.Query(ctx, query, userID, accountID, ids)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки импортированных транзакций: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

// Batcher is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Batcher interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// InsertTransactions вставляет пачку транзакций одной batch-операцией.
// Строки с уже известным external_id пропускаются.
func InsertTransactions(ctx context.Context, db Batcher, transactions []models.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, t := range transactions {
		batch.Queue(`
			INSERT INTO transactions (user_id, account_id, category_id, amount, type, description,
				transaction_date, currency, external_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT DO NOTHING`,
			t.UserID, t.AccountID, t.CategoryID, t.Amount, t.Type, t.Description, t.Date, t.Currency, t.ExternalID)
	}

	results := db.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range transactions {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("ошибка пакетной вставки транзакций: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// ActiveUserIDs возвращает пользователей с транзакциями после since.
func ActiveUserIDs(ctx context.Context, db Querier, since time.Time) ([]int, error) {
	rows, err := db.Query(ctx, `SELECT DISTINCT user_id FROM transactions WHERE created_at >= $1 OR transaction_date >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения активных пользователей: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MoveTransactionsToHistory переносит транзакции старше olderThan в архив.
func MoveTransactionsToHistory(ctx context.Context, db Querier, olderThan time.Time) (int64, error) {
	query := `
		WITH moved AS (
			DELETE FROM transactions WHERE transaction_date < $1
			RETURNING ` + transactionColumns + `
		)
		INSERT INTO transactionhistory (` + transactionColumns + `)
		SELECT ` + transactionColumns + ` FROM moved`

	tag, err := db.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("ошибка переноса транзакций в архив: %w", err)
	}
	return tag.RowsAffected(), nil
}
