package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/models"
)

func createAccount(t *testing.T, c context.Context, tx database.Querier, userID int) *models.Account {
	t.Helper()
	account := &models.Account{UserID: userID, Name: "Основной", Type: "checking", Currency: "USD", OpeningBalance: decimal.NewFromInt(100)}
	if err := database.CreateAccount(c, tx, account); err != nil {
		t.Fatalf("ошибка создания счета: %v", err)
	}
	return account
}

func TestTransactionCRUD(t *testing.T) {
	c, tx := testTx(t)
	userID := testUser()
	account := createAccount(t, c, tx, userID)

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   &account.ID,
		Amount:      decimal.RequireFromString("100.50"),
		Type:        models.TransactionExpense,
		Description: "Test transaction",
		Date:        time.Now().UTC().Truncate(time.Second),
	}
	if err := database.CreateTransaction(c, tx, transaction); err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}
	if transaction.ID == 0 || transaction.Currency != "USD" {
		t.Fatalf("ожидались ID и валюта по умолчанию, получили %+v", transaction)
	}

	got, err := database.GetTransactionByID(c, tx, userID, transaction.ID)
	if err != nil {
		t.Fatalf("ошибка получения транзакции: %v", err)
	}
	if !got.Amount.Equal(transaction.Amount) || got.Description != transaction.Description {
		t.Errorf("данные транзакции не совпадают: получили %+v, хотели %+v", got, transaction)
	}

	// Чужой пользователь не видит транзакцию.
	if _, err := database.GetTransactionByID(c, tx, userID+1, transaction.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("ожидалась ErrNotFound, получили %v", err)
	}

	transaction.Amount = decimal.NewFromInt(200)
	transaction.Description = "Updated"
	if err := database.UpdateTransaction(c, tx, transaction); err != nil {
		t.Fatalf("ошибка обновления транзакции: %v", err)
	}
	got, _ = database.GetTransactionByID(c, tx, userID, transaction.ID)
	if !got.Amount.Equal(decimal.NewFromInt(200)) || got.Description != "Updated" {
		t.Errorf("транзакция не обновлена: %+v", got)
	}

	if err := database.DeleteTransaction(c, tx, userID, transaction.ID); err != nil {
		t.Fatalf("ошибка удаления транзакции: %v", err)
	}
	if err := database.DeleteTransaction(c, tx, userID, transaction.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("повторное удаление: ожидалась ErrNotFound, получили %v", err)
	}
}

func TestGetTransactionsFilter(t *testing.T) {
	c, tx := testTx(t)
	userID := testUser()
	now := time.Now().UTC()

	for i, typ := range []string{models.TransactionExpense, models.TransactionIncome, models.TransactionExpense} {
		txn := &models.Transaction{
			UserID: userID,
			Amount: decimal.NewFromInt(int64(10 * (i + 1))),
			Type:   typ,
			Date:   now.AddDate(0, 0, -i),
		}
		if err := database.CreateTransaction(c, tx, txn); err != nil {
			t.Fatalf("ошибка создания транзакции: %v", err)
		}
	}

	expenses, err := database.GetTransactions(c, tx, models.TransactionFilter{UserID: userID, Type: models.TransactionExpense})
	if err != nil {
		t.Fatalf("ошибка получения транзакций: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("ожидалось 2 расхода, получили %d", len(expenses))
	}
	if !expenses[0].Date.After(expenses[1].Date) {
		t.Error("транзакции должны быть отсортированы от новых к старым")
	}

	recent, err := database.GetTransactionsByUserID(c, tx, userID, now.AddDate(0, 0, -1).Add(-time.Minute))
	if err != nil {
		t.Fatalf("ошибка получения транзакций: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("ожидалось 2 транзакции за последние сутки, получили %d", len(recent))
	}

	page, _ := database.GetTransactions(c, tx, models.TransactionFilter{UserID: userID, Limit: 1, Offset: 1})
	if len(page) != 1 || !page[0].Amount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("неверная страница: %+v", page)
	}
}

func TestInsertTransactionsSkipsKnownExternalIDs(t *testing.T) {
	c, tx := testTx(t)
	userID := testUser()
	account := createAccount(t, c, tx, userID)

	line := func(fitid string) models.Transaction {
		id := fitid
		return models.Transaction{
			UserID:     userID,
			AccountID:  &account.ID,
			Amount:     decimal.NewFromInt(5),
			Type:       models.TransactionExpense,
			Date:       time.Now().UTC(),
			Currency:   "USD",
			ExternalID: &id,
		}
	}

	inserted, err := database.InsertTransactions(c, tx, []models.Transaction{line("A"), line("B")})
	if err != nil {
		t.Fatalf("ошибка пакетной вставки: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("вставлено %d, ожидалось 2", inserted)
	}

	existing, err := database.ExistingExternalIDs(c, tx, userID, account.ID, []string{"A", "C"})
	if err != nil {
		t.Fatalf("ошибка проверки external_id: %v", err)
	}
	if !existing["A"] || existing["C"] {
		t.Errorf("неверный набор существующих ID: %v", existing)
	}

	inserted, err = database.InsertTransactions(c, tx, []models.Transaction{line("B"), line("C")})
	if err != nil {
		t.Fatalf("ошибка пакетной вставки: %v", err)
	}
	if inserted != 1 {
		t.Errorf("вставлено %d, ожидалась 1 новая строка", inserted)
	}
}

func TestMoveTransactionsToHistory(t *testing.T) {
	c, tx := testTx(t)
	userID := testUser()
	now := time.Now().UTC()

	old := &models.Transaction{UserID: userID, Amount: decimal.NewFromInt(1), Type: models.TransactionIncome, Date: now.AddDate(-3, 0, 0)}
	fresh := &models.Transaction{UserID: userID, Amount: decimal.NewFromInt(2), Type: models.TransactionIncome, Date: now}
	for _, txn := range []*models.Transaction{old, fresh} {
		if err := database.CreateTransaction(c, tx, txn); err != nil {
			t.Fatalf("ошибка создания транзакции: %v", err)
		}
	}

	moved, err := database.MoveTransactionsToHistory(c, tx, now.AddDate(-2, 0, 0))
	if err != nil {
		t.Fatalf("ошибка архивирования: %v", err)
	}
	if moved < 1 {
		t.Fatalf("ожидался перенос хотя бы одной транзакции, перенесено %d", moved)
	}
	if _, err := database.GetTransactionByID(c, tx, userID, old.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("старая транзакция осталась в основной таблице: %v", err)
	}
	if _, err := database.GetTransactionByID(c, tx, userID, fresh.ID); err != nil {
		t.Errorf("свежая транзакция не должна архивироваться: %v", err)
	}

	// Архив учитывается в месячной статистике.
	monthly, err := database.GetMonthlyIncomeAndExpenses(c, tx, userID, old.Date.Year())
	if err != nil {
		t.Fatalf("ошибка получения статистики: %v", err)
	}
	if len(monthly) != 1 || !monthly[0].Income.Equal(decimal.NewFromInt(1)) {
		t.Errorf("архивная транзакция не попала в статистику: %+v", monthly)
	}
}

func TestAccountBalanceSurvivesArchiving(t *testing.T) {
	c, tx := testTx(t)
	userID := testUser()
	account := createAccount(t, c, tx, userID)
	now := time.Now().UTC()

	for _, txn := range []*models.Transaction{
		{UserID: userID, AccountID: &account.ID, Amount: decimal.NewFromInt(100), Type: models.TransactionIncome, Date: now.AddDate(-3, 0, 0)},
		{UserID: userID, AccountID: &account.ID, Amount: decimal.NewFromInt(30), Type: models.TransactionExpense, Date: now},
	} {
		if err := database.CreateTransaction(c, tx, txn); err != nil {
			t.Fatalf("ошибка создания транзакции: %v", err)
		}
	}

	before, err := database.GetAccountByID(c, tx, userID, account.ID)
	if err != nil {
		t.Fatalf("ошибка получения счета: %v", err)
	}
	if !before.Balance.Equal(decimal.NewFromInt(170)) {
		t.Fatalf("баланс до архивирования %s, ожидалось 170", before.Balance)
	}

	if _, err := database.MoveTransactionsToHistory(c, tx, now.AddDate(-2, 0, 0)); err != nil {
		t.Fatalf("ошибка архивирования: %v", err)
	}

	after, err := database.GetAccountByID(c, tx, userID, account.ID)
	if err != nil {
		t.Fatalf("ошибка получения счета: %v", err)
	}
	if !after.Balance.Equal(before.Balance) {
		t.Errorf("баланс изменился после архивирования: было %s, стало %s", before.Balance, after.Balance)
	}

	balances, err := database.GetBalancesByCurrency(c, tx, userID)
	if err != nil {
		t.Fatalf("ошибка получения балансов: %v", err)
	}
	if len(balances) != 1 || !balances[0].Balance.Equal(before.Balance) {
		t.Errorf("общий баланс после архивирования: %+v", balances)
	}
}

func TestAccountBalanceIgnoresForeignTransactions(t *testing.T) {
	c, tx := testTx(t)
	owner := testUser()
	account := createAccount(t, c, tx, owner)

	foreign := &models.Transaction{UserID: owner + 1, AccountID: &account.ID, Amount: decimal.NewFromInt(60), Type: models.TransactionExpense, Date: time.Now()}
	if err := database.CreateTransaction(c, tx, foreign); err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}

	got, err := database.GetAccountByID(c, tx, owner, account.ID)
	if err != nil {
		t.Fatalf("ошибка получения счета: %v", err)
	}
	if !got.Balance.Equal(account.OpeningBalance) {
		t.Errorf("чужая транзакция изменила баланс: %s", got.Balance)
	}
}
