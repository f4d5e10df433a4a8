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

func createCategory(t *testing.T, c context.Context, tx database.Querier, userID int, name, typ string) *models.Category {
	t.Helper()
	category := &models.Category{UserID: userID, Name: name, Type: typ}
	if err := database.CreateCategory(c, tx, category); err != nil {
		t.Fatalf("ошибка создания категории: %v", err)
	}
	return category
}

func TestCategoryCRUD(t *testing.T) {
	c, tx := testTx(t)
	userID := testUser()
	category := createCategory(t, c, tx, userID, "Продукты", models.TransactionExpense)

	got, err := database.GetCategoryByID(c, tx, userID, category.ID)
	if err != nil {
		t.Fatalf("ошибка получения категории: %v", err)
	}
	if got.Name != "Продукты" || got.Type != models.TransactionExpense {
		t.Errorf("данные категории не совпадают: %+v", got)
	}

	category.Name = "Еда"
	category.Color = "#ff0000"
	if err := database.UpdateCategory(c, tx, category); err != nil {
		t.Fatalf("ошибка обновления категории: %v", err)
	}
	list, err := database.GetCategoriesByUserID(c, tx, userID)
	if err != nil {
		t.Fatalf("ошибка получения категорий: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Еда" || list[0].Color != "#ff0000" {
		t.Errorf("категория не обновлена: %+v", list)
	}

	if err := database.DeleteCategory(c, tx, userID, category.ID); err != nil {
		t.Fatalf("ошибка удаления категории: %v", err)
	}
	if _, err := database.GetCategoryByID(c, tx, userID, category.ID); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("ожидалась ErrNotFound, получили %v", err)
	}
}

func TestBudgetStatuses(t *testing.T) {
	c, tx := testTx(t)
	userID := testUser()
	category := createCategory(t, c, tx, userID, "Транспорт", models.TransactionExpense)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	budget := &models.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Amount:     decimal.NewFromInt(100),
		Period:     "monthly",
		StartDate:  start,
		EndDate:    start.AddDate(0, 1, -1),
	}
	if err := database.CreateBudget(c, tx, budget); err != nil {
		t.Fatalf("ошибка создания бюджета: %v", err)
	}

	spend := []struct {
		amount int64
		date   time.Time
		typ    string
	}{
		{30, time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC), models.TransactionExpense},
		{55, time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC), models.TransactionExpense},
		{40, time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC), models.TransactionExpense},
		{999, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), models.TransactionIncome},
	}
	for _, s := range spend {
		txn := &models.Transaction{UserID: userID, CategoryID: &category.ID, Amount: decimal.NewFromInt(s.amount), Type: s.typ, Date: s.date}
		if err := database.CreateTransaction(c, tx, txn); err != nil {
			t.Fatalf("ошибка создания транзакции: %v", err)
		}
	}

	statuses, err := database.GetBudgetStatuses(c, tx, userID, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ошибка получения состояния бюджетов: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("ожидался 1 бюджет, получили %d", len(statuses))
	}
	st := statuses[0]
	if !st.Spent.Equal(decimal.NewFromInt(85)) || st.UsedPercent != 85 || st.CategoryName != "Транспорт" {
		t.Errorf("неверное состояние бюджета: %+v", st)
	}

	// Вне периода бюджет не действует.
	statuses, _ = database.GetBudgetStatuses(c, tx, userID, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	if len(statuses) != 0 {
		t.Errorf("бюджет не должен действовать в мае: %+v", statuses)
	}
}

func TestUpdateExpiredBudgets(t *testing.T) {
	c, tx := testTx(t)
	userID := testUser()
	category := createCategory(t, c, tx, userID, "Связь", models.TransactionExpense)

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Amount:     decimal.NewFromInt(20),
		Period:     "monthly",
		StartDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	if err := database.CreateBudget(c, tx, budget); err != nil {
		t.Fatalf("ошибка создания бюджета: %v", err)
	}

	if _, err := database.UpdateExpiredBudgets(c, tx, time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("ошибка продления бюджетов: %v", err)
	}

	got, err := database.GetBudgetByID(c, tx, userID, budget.ID)
	if err != nil {
		t.Fatalf("ошибка получения бюджета: %v", err)
	}
	wantStart := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	if !got.StartDate.Equal(wantStart) || !got.EndDate.Equal(wantEnd) {
		t.Errorf("бюджет продлен до [%v, %v], ожидалось [%v, %v]", got.StartDate, got.EndDate, wantStart, wantEnd)
	}
}

func TestBudgetStatusesSkipForeignCategories(t *testing.T) {
	c, tx := testTx(t)
	userID := testUser()
	foreign := createCategory(t, c, tx, userID+1, "Чужая", models.TransactionExpense)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	budget := &models.Budget{
		UserID:     userID,
		CategoryID: foreign.ID,
		Amount:     decimal.NewFromInt(100),
		Period:     "monthly",
		StartDate:  start,
		EndDate:    start.AddDate(0, 1, -1),
	}
	if err := database.CreateBudget(c, tx, budget); err != nil {
		t.Fatalf("ошибка создания бюджета: %v", err)
	}

	statuses, err := database.GetBudgetStatuses(c, tx, userID, start.AddDate(0, 0, 10))
	if err != nil {
		t.Fatalf("ошибка получения состояния бюджетов: %v", err)
	}
	if len(statuses) != 0 {
		t.Errorf("бюджет на чужую категорию раскрыл ее: %+v", statuses)
	}
}
