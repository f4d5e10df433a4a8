package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{UserID: 1, Amount: decimal.NewFromInt(10), Type: TransactionExpense, Date: date(2026, 1, 1)}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	tests := map[string]func(tx *Transaction){
		"no user":      func(tx *Transaction) { tx.UserID = 0 },
		"zero amount":  func(tx *Transaction) { tx.Amount = decimal.Zero },
		"negative":     func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-5) },
		"unknown type": func(tx *Transaction) { tx.Type = "transfer" },
		"no date":      func(tx *Transaction) { tx.Date = time.Time{} },
	}
	for name, mutate := range tests {
		tx := valid
		mutate(&tx)
		if err := tx.Validate(); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", name, err)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	b := Budget{UserID: 1, CategoryID: 2, Amount: decimal.NewFromInt(100), Period: "monthly", StartDate: date(2026, 3, 1), EndDate: date(2026, 3, 31)}
	if err := b.Validate(); err != nil {
		t.Fatalf("valid budget rejected: %v", err)
	}
	b.EndDate = date(2026, 2, 28)
	if err := b.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("end before start accepted")
	}
	b.EndDate = b.StartDate
	b.Period = "daily"
	if err := b.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown period accepted")
	}
}

func TestCardValidate(t *testing.T) {
	for last4, ok := range map[string]bool{"1234": true, "123": false, "12a4": false, "12345": false} {
		c := Card{UserID: 1, AccountID: 1, Last4: last4, ClosingDay: 1, DueDay: 28}
		if err := c.Validate(); (err == nil) != ok {
			t.Errorf("last4 %q: err = %v", last4, err)
		}
	}
}

func TestAccountAndContactValidate(t *testing.T) {
	a := Account{UserID: 1, Name: "Main", Type: "checking", Currency: "USD"}
	if err := a.Validate(); err != nil {
		t.Errorf("valid account rejected: %v", err)
	}
	a.Type = "crypto"
	if err := a.Validate(); err == nil {
		t.Error("unknown account type accepted")
	}

	c := Contact{UserID: 1, Name: "Landlord", Email: "not-an-email"}
	if err := c.Validate(); err == nil {
		t.Error("malformed email accepted")
	}
	c.Email = ""
	if err := c.Validate(); err != nil {
		t.Errorf("empty email rejected: %v", err)
	}
}

func TestBudgetNext(t *testing.T) {
	tests := []struct {
		period     string
		start, end time.Time
		wantStart  time.Time
		wantEnd    time.Time
	}{
		{"monthly", date(2026, 1, 1), date(2026, 1, 31), date(2026, 2, 1), date(2026, 2, 28)},
		{"monthly", date(2025, 12, 31), date(2026, 1, 30), date(2026, 1, 31), date(2026, 2, 28)},
		{"monthly", date(2026, 1, 31), date(2026, 2, 28), date(2026, 3, 1), date(2026, 3, 31)},
		{"monthly", date(2027, 12, 31), date(2028, 1, 30), date(2028, 1, 31), date(2028, 2, 29)},
		{"monthly", date(2026, 3, 15), date(2026, 4, 14), date(2026, 4, 15), date(2026, 5, 14)},
		{"weekly", date(2026, 3, 2), date(2026, 3, 8), date(2026, 3, 9), date(2026, 3, 15)},
		{"yearly", date(2025, 1, 1), date(2025, 12, 31), date(2026, 1, 1), date(2026, 12, 31)},
	}
	for _, tt := range tests {
		b := Budget{ID: 3, Amount: decimal.NewFromInt(50), Period: tt.period, StartDate: tt.start, EndDate: tt.end}
		next := b.Next()
		if !next.StartDate.Equal(tt.wantStart) || !next.EndDate.Equal(tt.wantEnd) {
			t.Errorf("%s: next = [%v, %v], want [%v, %v]", tt.period, next.StartDate, next.EndDate, tt.wantStart, tt.wantEnd)
		}
		if next.ID != b.ID || !next.Amount.Equal(b.Amount) {
			t.Errorf("%s: identity or amount changed", tt.period)
		}
	}
}

func TestBudgetNextMonthlyDoesNotSkipMonths(t *testing.T) {
	b := Budget{Period: "monthly", StartDate: date(2026, 1, 1), EndDate: date(2026, 1, 30)}
	for i := 0; i < 24; i++ {
		next := b.Next()
		if !next.StartDate.Equal(b.EndDate.AddDate(0, 0, 1)) {
			t.Fatalf("gap after %v: next starts %v", b.EndDate, next.StartDate)
		}
		if months := (next.EndDate.Year()-next.StartDate.Year())*12 + int(next.EndDate.Month()-next.StartDate.Month()); months > 1 {
			t.Fatalf("period [%v, %v] spans more than one month boundary", next.StartDate, next.EndDate)
		}
		b = next
	}
}

func TestNewBudgetStatus(t *testing.T) {
	b := Budget{Amount: decimal.NewFromInt(200)}
	s := NewBudgetStatus(b, "Food", decimal.NewFromInt(170))

	if s.UsedPercent != 85 {
		t.Errorf("used = %v, want 85", s.UsedPercent)
	}
	if !s.Remaining.Equal(decimal.NewFromInt(30)) {
		t.Errorf("remaining = %s, want 30", s.Remaining)
	}

	over := NewBudgetStatus(b, "Food", decimal.NewFromInt(250))
	if over.UsedPercent != 125 || !over.Remaining.IsNegative() {
		t.Errorf("overspent status = %+v", over)
	}

	zero := NewBudgetStatus(Budget{}, "Food", decimal.NewFromInt(10))
	if zero.UsedPercent != 0 {
		t.Errorf("zero budget used = %v", zero.UsedPercent)
	}
}

func TestInQuietHours(t *testing.T) {
	hours := func(start, end int) UserSettings {
		return UserSettings{QuietHoursStart: &start, QuietHoursEnd: &end}
	}
	tests := []struct {
		name string
		s    UserSettings
		hour int
		want bool
	}{
		{"unset", UserSettings{}, 3, false},
		{"inside day range", hours(13, 15), 14, true},
		{"end exclusive", hours(13, 15), 15, false},
		{"overnight late", hours(22, 7), 23, true},
		{"overnight early", hours(22, 7), 6, true},
		{"overnight outside", hours(22, 7), 12, false},
		{"empty range", hours(5, 5), 5, false},
	}
	for _, tt := range tests {
		if got := tt.s.InQuietHours(tt.hour); got != tt.want {
			t.Errorf("%s: InQuietHours(%d) = %v, want %v", tt.name, tt.hour, got, tt.want)
		}
	}
}

func TestGoalStatus(t *testing.T) {
	g := Goal{Amount: decimal.NewFromInt(100), CurrentAmount: decimal.NewFromInt(40), Status: GoalActive}
	if err := g.UpdateGoalStatus(); err == nil {
		t.Fatal("unfinished goal reported as achieved")
	}
	if !g.RemainingAmount().Equal(decimal.NewFromInt(60)) {
		t.Errorf("remaining = %s", g.RemainingAmount())
	}
	g.CurrentAmount = decimal.NewFromInt(100)
	if err := g.UpdateGoalStatus(); err != nil || g.Status != GoalAchieved {
		t.Errorf("status = %s, err = %v", g.Status, err)
	}
}
