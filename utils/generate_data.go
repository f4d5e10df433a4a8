package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/models"
)

// demoCategory описывает категорию и диапазон типичных сумм для неё.
type demoCategory struct {
	Name     string
	Type     string
	Color    string
	Min, Max float64
	PerMonth int
}

var demoCategories = []demoCategory{
	{Name: "Зарплата", Type: models.TransactionIncome, Color: "#2e7d32", Min: 1800, Max: 2200, PerMonth: 1},
	{Name: "Подработка", Type: models.TransactionIncome, Color: "#66bb6a", Min: 50, Max: 400, PerMonth: 1},
	{Name: "Продукты", Type: models.TransactionExpense, Color: "#ef6c00", Min: 8, Max: 90, PerMonth: 10},
	{Name: "Транспорт", Type: models.TransactionExpense, Color: "#1565c0", Min: 2, Max: 25, PerMonth: 8},
	{Name: "Развлечения", Type: models.TransactionExpense, Color: "#8e24aa", Min: 10, Max: 120, PerMonth: 3},
	{Name: "Коммунальные услуги", Type: models.TransactionExpense, Color: "#6d4c41", Min: 60, Max: 140, PerMonth: 1},
}

// Подписки повторяются каждый месяц в один и тот же день и с одной суммой.
var demoSubscriptions = []struct {
	Description string
	Category    string
	Amount      string
	Day         int
}{
	{Description: "Netflix subscription", Category: "Развлечения", Amount: "12.99", Day: 5},
	{Description: "Spotify Premium", Category: "Развлечения", Amount: "9.99", Day: 12},
	{Description: "Mobile plan", Category: "Коммунальные услуги", Amount: "15.00", Day: 20},
}

// Generator builds demo data with a seeded faker so runs are reproducible.
type Generator struct {
	faker *gofakeit.Faker
}

func NewGenerator(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

func (g *Generator) price(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(g.faker.Price(min, max)).Round(2)
}

// Transactions генерирует историю операций за months месяцев до now.
// categoryIDs сопоставляет имя категории с её ID.
func (g *Generator) Transactions(userID, accountID int, categoryIDs map[string]int, currency string, now time.Time, months int) []models.Transaction {
	var txns []models.Transaction
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -months, 0)

	for m := 0; m <= months; m++ {
		monthStart := start.AddDate(0, m, 0)
		monthEnd := monthStart.AddDate(0, 1, -1)
		if monthEnd.After(now) {
			monthEnd = now
		}
		if monthStart.After(monthEnd) {
			break
		}

		for _, dc := range demoCategories {
			catID := categoryIDs[dc.Name]
			for i := 0; i < dc.PerMonth; i++ {
				txns = append(txns, models.Transaction{
					UserID:      userID,
					AccountID:   &accountID,
					CategoryID:  intPtr(catID),
					Amount:      g.price(dc.Min, dc.Max),
					Type:        dc.Type,
					Description: g.description(dc),
					Date:        g.faker.DateRange(monthStart, monthEnd.Add(24*time.Hour-time.Second)),
					Currency:    currency,
				})
			}
		}

		for _, sub := range demoSubscriptions {
			date := monthStart.AddDate(0, 0, sub.Day-1)
			if date.After(now) {
				continue
			}
			txns = append(txns, models.Transaction{
				UserID:      userID,
				AccountID:   &accountID,
				CategoryID:  intPtr(categoryIDs[sub.Category]),
				Amount:      decimal.RequireFromString(sub.Amount),
				Type:        models.TransactionExpense,
				Description: sub.Description,
				Date:        date,
				Currency:    currency,
			})
		}
	}
	return txns
}

func (g *Generator) description(dc demoCategory) string {
	if dc.Type == models.TransactionIncome {
		return fmt.Sprintf("%s: %s", dc.Name, g.faker.Company())
	}
	return g.faker.Company()
}

func (g *Generator) Contacts(userID, n int) []models.Contact {
	contacts := make([]models.Contact, 0, n)
	for i := 0; i < n; i++ {
		contacts = append(contacts, models.Contact{
			UserID: userID,
			Name:   g.faker.Name(),
			Email:  g.faker.Email(),
			Phone:  g.faker.Phone(),
			Note:   g.faker.Sentence(4),
		})
	}
	return contacts
}

func (g *Generator) Reminders(userID int, now time.Time, n int) []models.PaymentReminder {
	reminders := make([]models.PaymentReminder, 0, n)
	for i := 0; i < n; i++ {
		reminders = append(reminders, models.PaymentReminder{
			UserID:      userID,
			Description: g.faker.Sentence(3),
			Amount:      g.price(10, 300),
			DueDate:     now.AddDate(0, 0, g.faker.Number(1, 30)),
		})
	}
	return reminders
}

// SeedSummary counts the rows created for one user.
type SeedSummary struct {
	Accounts     int
	Categories   int
	Transactions int
	Budgets      int
	Goals        int
	Contacts     int
	Reminders    int
}

// SeedUser fills the database with a realistic history for userID.
func SeedUser(ctx context.Context, db database.Querier, g *Generator, userID, months int, log zerolog.Logger) (SeedSummary, error) {
	var sum SeedSummary
	now := time.Now().UTC()

	settings := models.DefaultUserSettings(userID)
	if err := database.UpsertUserSettings(ctx, db, &settings); err != nil {
		return sum, err
	}

	account := &models.Account{
		UserID:         userID,
		Name:           "Основной счёт",
		Type:           "checking",
		Currency:       settings.Currency,
		OpeningBalance: g.price(500, 3000),
	}
	if err := database.CreateAccount(ctx, db, account); err != nil {
		return sum, err
	}
	savings := &models.Account{
		UserID:   userID,
		Name:     "Накопления",
		Type:     "savings",
		Currency: "EUR",
	}
	if err := database.CreateAccount(ctx, db, savings); err != nil {
		return sum, err
	}
	sum.Accounts = 2

	card := &models.Card{
		UserID:      userID,
		AccountID:   account.ID,
		Name:        "Visa",
		Last4:       g.faker.DigitN(4),
		CreditLimit: decimal.NewFromInt(1000),
		ClosingDay:  25,
		DueDay:      10,
	}
	if err := database.CreateCard(ctx, db, card); err != nil {
		return sum, err
	}

	categoryIDs := make(map[string]int, len(demoCategories))
	for _, dc := range demoCategories {
		category := &models.Category{UserID: userID, Name: dc.Name, Type: dc.Type, Color: dc.Color}
		if err := database.CreateCategory(ctx, db, category); err != nil {
			return sum, err
		}
		categoryIDs[dc.Name] = category.ID
		sum.Categories++
	}

	txns := g.Transactions(userID, account.ID, categoryIDs, settings.Currency, now, months)
	for i := range txns {
		if err := database.CreateTransaction(ctx, db, &txns[i]); err != nil {
			return sum, err
		}
	}
	sum.Transactions = len(txns)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for _, dc := range demoCategories {
		if dc.Type != models.TransactionExpense {
			continue
		}
		budget := &models.Budget{
			UserID:     userID,
			CategoryID: categoryIDs[dc.Name],
			Amount:     decimal.NewFromFloat((dc.Min + dc.Max) / 2 * float64(dc.PerMonth)).Round(0),
			Period:     "monthly",
			StartDate:  monthStart,
			EndDate:    monthStart.AddDate(0, 1, -1),
			Currency:   settings.Currency,
		}
		if err := database.CreateBudget(ctx, db, budget); err != nil {
			return sum, err
		}
		sum.Budgets++
	}

	goal := &models.Goal{
		UserID:     userID,
		Name:       "Отпуск",
		Amount:     decimal.NewFromInt(2500),
		TargetDate: now.AddDate(0, 8, 0),
	}
	if err := database.CreateGoal(ctx, db, goal); err != nil {
		return sum, err
	}
	sum.Goals = 1

	for _, contact := range g.Contacts(userID, 3) {
		contact := contact
		if err := database.CreateContact(ctx, db, &contact); err != nil {
			return sum, err
		}
		sum.Contacts++
	}
	for _, reminder := range g.Reminders(userID, now, 2) {
		reminder := reminder
		if err := database.CreatePaymentReminder(ctx, db, &reminder); err != nil {
			return sum, err
		}
		sum.Reminders++
	}

	log.Info().
		Int("user_id", userID).
		Int("transactions", sum.Transactions).
		Int("budgets", sum.Budgets).
		Msg("Demo data generated")
	return sum, nil
}

func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
