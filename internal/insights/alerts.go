package insights

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/neofin/models"
)

const (
	budgetWarningPercent  = 80
	budgetExceededPercent = 100
	recurringDueWindow    = 3 * 24 * time.Hour
)

// AlertInput is everything a scan needs about one user.
type AlertInput struct {
	UserID              int
	Now                 time.Time
	Budgets             []models.BudgetStatus
	Transactions        []models.Transaction
	Accounts            []models.Account
	LowBalanceThreshold decimal.Decimal
	AnomalyThreshold    float64
}

// GenerateAlerts evaluates all alert rules. DedupeKey is stable across
// scans so the same condition is stored once.
func GenerateAlerts(in AlertInput) []models.Alert {
	var alerts []models.Alert
	add := func(kind, severity, key, title, message string) {
		alerts = append(alerts, models.Alert{
			UserID:    in.UserID,
			Kind:      kind,
			Severity:  severity,
			Title:     title,
			Message:   message,
			DedupeKey: key,
			CreatedAt: in.Now,
		})
	}

	for _, b := range in.Budgets {
		period := b.StartDate.Format("2006-01-02")
		switch {
		case b.UsedPercent >= budgetExceededPercent:
			add(models.AlertBudgetExceeded, models.SeverityCritical,
				fmt.Sprintf("budget_exceeded:%d:%s", b.ID, period),
				"Budget exceeded",
				fmt.Sprintf("You spent %s of %s on %s (%.0f%%)", b.Spent.StringFixed(2), b.Amount.StringFixed(2), b.CategoryName, b.UsedPercent))
		case b.UsedPercent >= budgetWarningPercent:
			add(models.AlertBudgetWarning, models.SeverityWarning,
				fmt.Sprintf("budget_warning:%d:%s", b.ID, period),
				"Budget almost used",
				fmt.Sprintf("%.0f%% of the %s budget is used, %s left", b.UsedPercent, b.CategoryName, b.Remaining.StringFixed(2)))
		}
	}

	for _, a := range DetectAnomalies(in.Transactions, in.AnomalyThreshold) {
		add(models.AlertAnomaly, models.SeverityWarning,
			fmt.Sprintf("anomaly:%d", a.Transaction.ID),
			"Unusual expense",
			fmt.Sprintf("%s for %s is %.1f standard deviations above your usual %.2f",
				a.Transaction.Amount.StringFixed(2), a.Transaction.Description, a.ZScore, a.Mean))
	}

	for _, r := range DetectRecurring(in.Transactions) {
		if r.Type != models.TransactionExpense {
			continue
		}
		until := r.NextExpected.Sub(in.Now)
		if until < 0 || until > recurringDueWindow {
			continue
		}
		add(models.AlertRecurringDue, models.SeverityInfo,
			fmt.Sprintf("recurring:%s:%s", r.Key, r.NextExpected.Format("2006-01-02")),
			"Upcoming recurring payment",
			fmt.Sprintf("%s (about %s) is expected on %s", r.Description, r.AverageAmount.StringFixed(2), r.NextExpected.Format("2006-01-02")))
	}

	if trend := ClassifyTrend(TotalExpenseSeries(in.Transactions, in.Now, predictionMonths)); trend.Direction == TrendIncreasing {
		add(models.AlertSpendingTrend, models.SeverityInfo,
			fmt.Sprintf("trend:%s", in.Now.Format("2006-01")),
			"Spending is growing",
			fmt.Sprintf("Monthly expenses grow by about %.0f%% per month", trend.Change*100))
	}

	if in.LowBalanceThreshold.IsPositive() {
		for _, acc := range in.Accounts {
			if acc.Balance.LessThan(in.LowBalanceThreshold) {
				add(models.AlertLowBalance, models.SeverityCritical,
					fmt.Sprintf("low_balance:%d:%s", acc.ID, in.Now.Format("2006-01-02")),
					"Low balance",
					fmt.Sprintf("%s balance is %s %s", acc.Name, acc.Balance.StringFixed(2), acc.Currency))
			}
		}
	}

	return alerts
}
