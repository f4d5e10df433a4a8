package insights

import (
	"sort"

	"github.com/valeriaulyamaeva/neofin/models"
)

const (
	DefaultAnomalyThreshold = 2.0
	minAnomalySamples       = 4
)

type Anomaly struct {
	Transaction models.Transaction `json:"transaction"`
	ZScore      float64            `json:"z_score"`
	Mean        float64            `json:"category_mean"`
	StdDev      float64            `json:"category_stddev"`
}

func categoryKey(t models.Transaction) int {
	if t.CategoryID == nil {
		return 0
	}
	return *t.CategoryID
}

// DetectAnomalies flags expenses that sit more than threshold standard
// deviations above their category mean. Categories with fewer than four
// expenses or no spread are skipped.
func DetectAnomalies(transactions []models.Transaction, threshold float64) []Anomaly {
	if threshold <= 0 {
		threshold = DefaultAnomalyThreshold
	}

	groups := make(map[int][]models.Transaction)
	for _, t := range transactions {
		if t.Type != models.TransactionExpense {
			continue
		}
		key := categoryKey(t)
		groups[key] = append(groups[key], t)
	}

	var anomalies []Anomaly
	for _, group := range groups {
		if len(group) < minAnomalySamples {
			continue
		}
		amounts := make([]float64, len(group))
		for i, t := range group {
			amounts[i] = t.Amount.InexactFloat64()
		}
		mean, stddev := Mean(amounts), StdDev(amounts)
		if stddev == 0 {
			continue
		}
		for i, t := range group {
			z := ZScore(amounts[i], mean, stddev)
			if z > threshold {
				anomalies = append(anomalies, Anomaly{
					Transaction: t,
					ZScore:      round2(z),
					Mean:        round2(mean),
					StdDev:      round2(stddev),
				})
			}
		}
	}

	sort.Slice(anomalies, func(i, j int) bool {
		return anomalies[i].ZScore > anomalies[j].ZScore
	})
	return anomalies
}
