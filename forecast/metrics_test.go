package forecast

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"app/models"
)

func series(start string, quantities ...int) []models.DailyPoint {
	day, err := parseDay(start)
	if err != nil {
		panic(err)
	}
	out := make([]models.DailyPoint, 0, len(quantities))
	for i, q := range quantities {
		out = append(out, models.DailyPoint{
			Date:     day.AddDate(0, 0, i).Format(dateLayout),
			Quantity: q,
		})
	}
	return out
}

func TestComputeMetricsEmptySeries(t *testing.T) {
	m := ComputeMetrics(nil)
	assert.Equal(t, 0.0, m.ADS)
	assert.Equal(t, TrendStable, m.Trend)
	assert.Equal(t, 0, m.ActiveDays)
}

func TestComputeMetricsSinglePoint(t *testing.T) {
	m := ComputeMetrics(series("2024-03-01", 7))
	assert.Equal(t, 1, m.ActiveDays)
	assert.Equal(t, 7.0, m.ADS)
	assert.Equal(t, TrendStable, m.Trend)
}

func TestComputeMetricsActiveSpan(t *testing.T) {
	// Two points ten days apart: the active span is inclusive.
	s := []models.DailyPoint{
		{Date: "2024-03-01", Quantity: 5},
		{Date: "2024-03-10", Quantity: 5},
	}
	m := ComputeMetrics(s)
	assert.Equal(t, 10, m.ActiveDays)
	assert.Equal(t, 1.0, m.ADS)
}

func TestComputeMetricsWorkedExample(t *testing.T) {
	m := ComputeMetrics(series("2024-01-01", 10, 10, 10, 12, 13, 14))
	assert.Equal(t, 69, m.TotalSold)
	assert.Equal(t, 6, m.ActiveDays)
	assert.InDelta(t, 11.5, m.ADS, 1e-9)
	assert.Equal(t, TrendUp, m.Trend)
}

func TestDetectTrendNeedsSixPoints(t *testing.T) {
	assert.Equal(t, TrendStable, detectTrend(series("2024-01-01", 1, 2, 3, 4, 5)))
}

func TestDetectTrendDown(t *testing.T) {
	assert.Equal(t, TrendDown, detectTrend(series("2024-01-01", 10, 10, 10, 5, 5, 5)))
}

func TestDetectTrendZeroPrevWindow(t *testing.T) {
	// A zero previous-window mean is treated as ratio 1 (stable), not a
	// division blowup.
	assert.Equal(t, TrendStable, detectTrend(series("2024-01-01", 0, 0, 0, 0, 0, 0)))
}

func TestDetectTrendUsesTrailingWindow(t *testing.T) {
	// Old history outside the 10-point window must not influence the call.
	quantities := []int{100, 100, 100, 100, 100, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10}
	assert.Equal(t, TrendStable, detectTrend(series("2024-01-01", quantities...)))
}

func TestConfidenceScoreClamped(t *testing.T) {
	// Highly erratic series: the score bottoms out at 0.40.
	erratic := series("2024-01-01", 1, 500, 2, 480, 3, 510)
	m := ComputeMetrics(erratic)
	assert.Equal(t, 0.40, m.Confidence)

	// Perfectly flat series: zero variance pins the score at 0.95.
	flat := series("2024-01-01", 20, 20, 20, 20)
	assert.Equal(t, 0.95, ComputeMetrics(flat).Confidence)
}

func TestConfidenceScoreAlwaysInRange(t *testing.T) {
	for i, s := range [][]models.DailyPoint{
		series("2024-01-01", 0, 0, 0),
		series("2024-01-01", 1),
		series("2024-01-01", 3, 9, 2, 44, 1),
		series("2024-01-01", 10, 10, 10, 12, 13, 14),
	} {
		m := ComputeMetrics(s)
		assert.GreaterOrEqual(t, m.Confidence, 0.40, fmt.Sprintf("case %d", i))
		assert.LessOrEqual(t, m.Confidence, 0.95, fmt.Sprintf("case %d", i))
	}
}
