package forecast

import (
	"math"

	"app/models"
)

// Trend is the direction of a product's recent sales movement.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Metrics are the per-product statistics derived from a daily series.
type Metrics struct {
	ADS        float64 // average units per day over the active span
	Trend      Trend
	TotalSold  int
	ActiveDays int
	Confidence float64 // variance-based, clamped to [0.40, 0.95]
}

// trendWindow is the number of trailing points considered for trend
// detection; the last three are compared against the preceding three.
const trendWindow = 10

// ComputeMetrics derives a product's metrics from its daily series.
// An empty series yields zero metrics with a stable trend; the caller is
// expected to special-case products without history.
func ComputeMetrics(series []models.DailyPoint) Metrics {
	if len(series) == 0 {
		return Metrics{Trend: TrendStable}
	}

	total := 0
	for _, pt := range series {
		total += pt.Quantity
	}

	activeDays := activeSpanDays(series)
	ads := float64(total) / float64(activeDays)

	return Metrics{
		ADS:        ads,
		Trend:      detectTrend(series),
		TotalSold:  total,
		ActiveDays: activeDays,
		Confidence: confidenceScore(series, ads),
	}
}

// activeSpanDays is the inclusive day range between the first and last
// observed sale, never less than 1.
func activeSpanDays(series []models.DailyPoint) int {
	if len(series) < 2 {
		return 1
	}
	first, errFirst := parseDay(series[0].Date)
	last, errLast := parseDay(series[len(series)-1].Date)
	if errFirst != nil || errLast != nil {
		return 1
	}
	days := int(last.Sub(first).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// detectTrend compares the mean of the last three points against the mean
// of the three before them, inside a trailing window of up to ten points.
// Fewer than six points means no trend call can be made.
func detectTrend(series []models.DailyPoint) Trend {
	window := series
	if len(window) > trendWindow {
		window = window[len(window)-trendWindow:]
	}
	if len(window) < 6 {
		return TrendStable
	}

	last3 := mean(window[len(window)-3:])
	prev3 := mean(window[len(window)-6 : len(window)-3])

	ratio := 1.0
	if prev3 != 0 {
		ratio = last3 / prev3
	}

	switch {
	case ratio > 1.1:
		return TrendUp
	case ratio < 0.9:
		return TrendDown
	default:
		return TrendStable
	}
}

func mean(points []models.DailyPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0
	for _, pt := range points {
		sum += pt.Quantity
	}
	return float64(sum) / float64(len(points))
}

// confidenceScore rewards low-variance series: the coefficient of
// variation of daily quantities around the ADS is folded into a score
// clamped to [0.40, 0.95].
func confidenceScore(series []models.DailyPoint, ads float64) float64 {
	variance := 0.0
	for _, pt := range series {
		d := float64(pt.Quantity) - ads
		variance += d * d
	}
	variance /= float64(len(series))

	cv := 0.0
	if ads > 0 {
		cv = math.Sqrt(variance) / ads
	}

	score := 0.95 - cv*0.5
	return clamp(score, 0.40, 0.95)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
