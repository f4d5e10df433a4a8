package database

import (
	"context"
	"fmt"

	"github.com/valeriaulyamaeva/neofin/models"
)

// accountMovement суммирует доходы и расходы по счету a, включая архив.
const accountMovement = `COALESCE((
			SELECT SUM(CASE WHEN t.type = 'income' THEN t.amount ELSE -t.amount END)
			FROM (
				SELECT account_id, user_id, amount, type FROM transactions
				UNION ALL
				SELECT account_id, user_id, amount, type FROM transactionhistory
			) t
			WHERE t.account_id = a.id AND t.user_id = a.user_id
		), 0)`

// Баланс счета = начальный остаток + доходы - расходы по счету.
const accountSelect = `
	SELECT a.id, a.user_id, a.name, a.type, a.currency, a.opening_balance, a.created_at,
		a.opening_balance + ` + accountMovement + ` AS balance
	FROM accounts a`

func CreateAccount(ctx context.Context, db Querier, account *models.Account) error {
	query := `
		INSERT INTO accounts (user_id, name, type, currency, opening_balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := db.QueryRow(ctx, query, account.UserID, account.Name, account.Type, account.Currency, account.OpeningBalance).
		Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении счета: %w", err)
	}
	account.Balance = account.OpeningBalance
	return nil
}

func GetAccountByID(ctx context.Context, db Querier, userID, accountID int) (*models.Account, error) {
	account := &models.Account{}
	err := db.QueryRow(ctx, accountSelect+` WHERE a.id = $1 AND a.user_id = $2`, accountID, userID).Scan(
		&account.ID,
		&account.UserID,
		&account.Name,
		&account.Type,
		&account.Currency,
		&account.OpeningBalance,
		&account.CreatedAt,
		&account.Balance,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении счета: %w",
			notFound(err, "счет с ID %d не найден", accountID))
	}
	return account, nil
}

func GetAccountsByUserID(ctx context.Context, db Querier, userID int) ([]models.Account, error) {
	rows, err := db.Query(ctx, accountSelect+` WHERE a.user_id = $1 ORDER BY a.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении счетов: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Currency, &a.OpeningBalance, &a.CreatedAt, &a.Balance); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func UpdateAccount(ctx context.Context, db Querier, account *models.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, type = $2, currency = $3, opening_balance = $4
		WHERE id = $5 AND user_id = $6`
	tag, err := db.Exec(ctx, query, account.Name, account.Type, account.Currency, account.OpeningBalance, account.ID, account.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления счета: %w", err)
	}
	return checkAffected(tag, "счет с ID %d не найден", account.ID)
}

func DeleteAccount(ctx context.Context, db Querier, userID, accountID int) error {
	tag, err := db.Exec(ctx, `DELETE FROM accounts WHERE id = $1 AND user_id = $2`, accountID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления счета: %w", err)
	}
	return checkAffected(tag, "счет с ID %d не найден", accountID)
}
