package database_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/models"
)

func TestBalancesByCurrency(t *testing.T) {
	c, tx := testTx(t)
	userID := testUser()

	usd := createAccount(t, c, tx, userID)
	eur := &models.Account{UserID: userID, Name: "Накопления", Type: "savings", Currency: "EUR", OpeningBalance: decimal.NewFromInt(50)}
	if err := database.CreateAccount(c, tx, eur); err != nil {
		t.Fatalf("ошибка создания счета: %v", err)
	}

	for _, txn := range []*models.Transaction{
		{UserID: userID, AccountID: &usd.ID, Amount: decimal.NewFromInt(40), Type: models.TransactionExpense},
		{UserID: userID, AccountID: &usd.ID, Amount: decimal.NewFromInt(15), Type: models.TransactionIncome},
	} {
		txn.Date = time.Now()
		if err := database.CreateTransaction(c, tx, txn); err != nil {
			t.Fatalf("ошибка создания транзакции: %v", err)
		}
	}

	balances, err := database.GetBalancesByCurrency(c, tx, userID)
	if err != nil {
		t.Fatalf("ошибка получения балансов: %v", err)
	}
	want := map[string]decimal.Decimal{"EUR": decimal.NewFromInt(50), "USD": decimal.NewFromInt(75)}
	if len(balances) != len(want) {
		t.Fatalf("балансы: %+v", balances)
	}
	for _, b := range balances {
		if !b.Balance.Equal(want[b.Currency]) {
			t.Errorf("%s: баланс %s, ожидалось %s", b.Currency, b.Balance, want[b.Currency])
		}
	}
}
