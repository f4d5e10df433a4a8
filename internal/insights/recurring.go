package insights

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/neofin/models"
)

const (
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
	FrequencyYearly   = "yearly"

	minRecurringOccurrences = 3
	maxIntervalCV           = 0.25
)

var frequencies = []struct {
	name      string
	days      float64
	tolerance float64
}{
	{FrequencyWeekly, 7, 2},
	{FrequencyBiweekly, 14, 3},
	{FrequencyMonthly, 30, 5},
	{FrequencyYearly, 365, 15},
}

type Recurring struct {
	Key           string          `json:"key"`
	Description   string          `json:"description"`
	Type          string          `json:"type"`
	CategoryID    *int            `json:"category_id,omitempty"`
	Frequency     string          `json:"frequency"`
	Occurrences   int             `json:"occurrences"`
	AverageAmount decimal.Decimal `json:"average_amount"`
	IntervalDays  float64         `json:"interval_days"`
	LastDate      time.Time       `json:"last_date"`
	NextExpected  time.Time       `json:"next_expected"`
}

// NormalizeDescription lowercases a description and drops digits and
// punctuation so "NETFLIX.COM 0423" and "Netflix.com 0523" group together.
func NormalizeDescription(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func matchFrequency(days float64) string {
	for _, f := range frequencies {
		if math.Abs(days-f.days) <= f.tolerance {
			return f.name
		}
	}
	return ""
}

// DetectRecurring finds series of transactions with the same normalised
// description that repeat at a regular weekly, biweekly, monthly or yearly
// interval.
func DetectRecurring(transactions []models.Transaction) []Recurring {
	groups := make(map[string][]models.Transaction)
	for _, t := range transactions {
		desc := NormalizeDescription(t.Description)
		if desc == "" {
			continue
		}
		key := t.Type + ":" + desc
		groups[key] = append(groups[key], t)
	}

	var result []Recurring
	for key, group := range groups {
		if len(group) < minRecurringOccurrences {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].Date.Before(group[j].Date) })

		intervals := make([]float64, 0, len(group)-1)
		for i := 1; i < len(group); i++ {
			intervals = append(intervals, group[i].Date.Sub(group[i-1].Date).Hours()/24)
		}
		mean := Mean(intervals)
		if mean <= 0 || CoefficientOfVariation(intervals) > maxIntervalCV {
			continue
		}
		freq := matchFrequency(mean)
		if freq == "" {
			continue
		}

		total := decimal.Zero
		for _, t := range group {
			total = total.Add(t.Amount)
		}
		last := group[len(group)-1]
		result = append(result, Recurring{
			Key:           key,
			Description:   last.Description,
			Type:          last.Type,
			CategoryID:    last.CategoryID,
			Frequency:     freq,
			Occurrences:   len(group),
			AverageAmount: total.Div(decimal.NewFromInt(int64(len(group)))).Round(2),
			IntervalDays:  round2(mean),
			LastDate:      last.Date,
			NextExpected:  last.Date.AddDate(0, 0, int(math.Round(mean))),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].NextExpected.Before(result[j].NextExpected)
	})
	return result
}
