package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/neofin/internal/insights"
	"github.com/valeriaulyamaeva/neofin/models"
)

const insightsHistoryMonths = 13

// TransactionReader loads a user's transactions since a point in time.
type TransactionReader interface {
	GetTransactions(ctx context.Context, userID int, since time.Time) ([]models.Transaction, error)
}

func loadHistory(c *gin.Context, reader TransactionReader, now time.Time) ([]models.Transaction, bool) {
	txns, err := reader.GetTransactions(c.Request.Context(), userID(c), now.AddDate(0, -insightsHistoryMonths, 0))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return txns, true
}

// GetPredictionsHandler прогнозирует расходы по категориям на текущий месяц.
func GetPredictionsHandler(reader TransactionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		txns, ok := loadHistory(c, reader, now)
		if !ok {
			return
		}
		predictions := insights.PredictNextMonth(txns, now)
		if predictions == nil {
			predictions = []insights.Prediction{}
		}
		c.JSON(http.StatusOK, predictions)
	}
}

func GetAnomaliesHandler(reader TransactionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		threshold := insights.DefaultAnomalyThreshold
		if raw := c.Query("threshold"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v <= 0 {
				badRequest(c, "Некорректный threshold")
				return
			}
			threshold = v
		}
		txns, ok := loadHistory(c, reader, time.Now())
		if !ok {
			return
		}
		anomalies := insights.DetectAnomalies(txns, threshold)
		if anomalies == nil {
			anomalies = []insights.Anomaly{}
		}
		c.JSON(http.StatusOK, anomalies)
	}
}

func GetRecurringHandler(reader TransactionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		txns, ok := loadHistory(c, reader, time.Now())
		if !ok {
			return
		}
		recurring := insights.DetectRecurring(txns)
		if recurring == nil {
			recurring = []insights.Recurring{}
		}
		c.JSON(http.StatusOK, recurring)
	}
}

// GetTrendHandler классифицирует динамику суммарных расходов за последние полгода.
func GetTrendHandler(reader TransactionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		txns, ok := loadHistory(c, reader, now)
		if !ok {
			return
		}
		series := insights.TotalExpenseSeries(txns, now, 6)
		c.JSON(http.StatusOK, gin.H{
			"monthly_expenses": series,
			"trend":            insights.ClassifyTrend(series),
		})
	}
}
