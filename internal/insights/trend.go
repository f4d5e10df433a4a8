package insights

import "math"

const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"

	trendThreshold = 0.05
)

type Trend struct {
	Direction string  `json:"direction"`
	Slope     float64 `json:"slope"`
	// Change is the slope relative to the series mean.
	Change float64 `json:"change"`
}

func ClassifyTrend(series []float64) Trend {
	if len(series) < 3 {
		return Trend{Direction: TrendStable}
	}
	slope := LinearSlope(series)
	mean := Mean(series)
	trend := Trend{Direction: TrendStable, Slope: round2(slope)}
	if mean == 0 {
		return trend
	}
	change := slope / math.Abs(mean)
	trend.Change = math.Round(change*10000) / 10000
	switch {
	case change > trendThreshold:
		trend.Direction = TrendIncreasing
	case change < -trendThreshold:
		trend.Direction = TrendDecreasing
	}
	return trend
}
