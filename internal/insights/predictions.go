package insights

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/neofin/models"
)

const predictionMonths = 6

type Prediction struct {
	CategoryID      *int            `json:"category_id,omitempty"`
	Month           string          `json:"month"`
	PredictedAmount decimal.Decimal `json:"predicted_amount"`
	Confidence      float64         `json:"confidence"`
	Trend           Trend           `json:"trend"`
	History         []float64       `json:"history"`
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthlyExpenseSeries sums expenses per category into `months` buckets
// ending with the month before now. Category 0 holds uncategorised spend.
func MonthlyExpenseSeries(transactions []models.Transaction, now time.Time, months int) map[int][]float64 {
	current := monthStart(now)
	first := current.AddDate(0, -months, 0)

	series := make(map[int][]float64)
	for _, t := range transactions {
		if t.Type != models.TransactionExpense || t.Date.Before(first) || !t.Date.Before(current) {
			continue
		}
		idx := (t.Date.Year()-first.Year())*12 + int(t.Date.Month()) - int(first.Month())
		if idx < 0 || idx >= months {
			continue
		}
		key := categoryKey(t)
		if series[key] == nil {
			series[key] = make([]float64, months)
		}
		series[key][idx] += t.Amount.InexactFloat64()
	}
	return series
}

// TotalExpenseSeries is MonthlyExpenseSeries summed over all categories.
func TotalExpenseSeries(transactions []models.Transaction, now time.Time, months int) []float64 {
	total := make([]float64, months)
	for _, s := range MonthlyExpenseSeries(transactions, now, months) {
		for i, v := range s {
			total[i] += v
		}
	}
	return total
}

// PredictNextMonth projects each category's spending for the month of now
// from the linear fit of the previous six months.
func PredictNextMonth(transactions []models.Transaction, now time.Time) []Prediction {
	month := monthStart(now).Format("2006-01")

	var predictions []Prediction
	for key, history := range MonthlyExpenseSeries(transactions, now, predictionMonths) {
		mean := Mean(history)
		slope := LinearSlope(history)
		// Fitted value at x = n.
		projected := mean + slope*(float64(len(history))-float64(len(history)-1)/2)
		if projected < 0 {
			projected = 0
		}

		confidence := 0.0
		if mean > 0 {
			confidence = math.Max(0, math.Min(1, 1-CoefficientOfVariation(history)))
		}

		p := Prediction{
			Month:           month,
			PredictedAmount: decimal.NewFromFloat(projected).Round(2),
			Confidence:      round2(confidence),
			Trend:           ClassifyTrend(history),
			History:         history,
		}
		if key != 0 {
			id := key
			p.CategoryID = &id
		}
		predictions = append(predictions, p)
	}

	sort.Slice(predictions, func(i, j int) bool {
		return predictions[i].PredictedAmount.GreaterThan(predictions[j].PredictedAmount)
	})
	return predictions
}
