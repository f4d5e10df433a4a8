package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/internal/logger"
)

// Converter converts amounts between currencies.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

func ConvertCurrencyHandler(conv Converter) gin.HandlerFunc {
	return func(c *gin.Context) {
		from := strings.ToUpper(c.Query("from"))
		to := strings.ToUpper(c.Query("to"))
		amountStr := c.Query("amount")

		if from == "" || to == "" || amountStr == "" {
			badRequest(c, "Отсутствуют параметры 'from', 'to' или 'amount'")
			return
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			badRequest(c, "Неверное значение 'amount'")
			return
		}

		result, err := conv.Convert(c.Request.Context(), amount, from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"from":   from,
			"to":     to,
			"amount": amount,
			"result": result,
		})
	}
}

// totalBalance converts per-currency balances into target. Currencies that
// cannot be converted are returned separately.
func totalBalance(ctx context.Context, conv Converter, balances []database.CurrencyBalance, target string) (decimal.Decimal, []string) {
	total := decimal.Zero
	var skipped []string
	for _, b := range balances {
		converted, err := conv.Convert(ctx, b.Balance, b.Currency, target)
		if err != nil {
			l := logger.FromContext(ctx)
			l.Warn().Err(err).Str("currency", b.Currency).Msg("Balance not converted")
			skipped = append(skipped, b.Currency)
			continue
		}
		total = total.Add(converted)
	}
	return total.Round(2), skipped
}

// DashboardHandler собирает общий баланс, доходы/расходы по месяцам и расходы по категориям.
func DashboardHandler(db database.Querier, conv Converter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		uid := userID(c)
		now := time.Now()

		settings, err := database.GetUserSettingsByID(ctx, db, uid)
		if err != nil {
			respondError(c, err)
			return
		}
		balances, err := database.GetBalancesByCurrency(ctx, db, uid)
		if err != nil {
			respondError(c, err)
			return
		}
		monthly, err := database.GetMonthlyIncomeAndExpenses(ctx, db, uid, now.Year())
		if err != nil {
			respondError(c, err)
			return
		}
		categories, err := database.GetCategoryWiseExpenses(ctx, db, uid, now)
		if err != nil {
			respondError(c, err)
			return
		}

		total, skipped := totalBalance(ctx, conv, balances, settings.Currency)
		c.JSON(http.StatusOK, gin.H{
			"currency":          settings.Currency,
			"total_balance":     total,
			"balances":          balances,
			"unconverted":       skipped,
			"monthly":           monthly,
			"category_expenses": categories,
		})
	}
}
