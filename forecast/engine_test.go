package forecast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"app/models"
	"app/store/memory"
)

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	st := memory.New()

	ctx := context.Background()
	_, err := st.ReplaceProducts(ctx, []models.Product{
		{ProductID: "P1", Name: "Widget", Region: strPtr("EU"), UnitPrice: 10, CurrentStock: 200, ReorderThreshold: 10},
		{ProductID: "P2", Name: "Gadget", Region: strPtr("EU"), UnitPrice: 5, CurrentStock: 40, ReorderThreshold: 10},
	})
	assert.NoError(t, err)

	quantities := []int{10, 10, 10, 12, 13, 14}
	records := make([]models.SalesRecord, 0, len(quantities))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, q := range quantities {
		records = append(records, models.SalesRecord{
			ProductID: "P1",
			Date:      start.AddDate(0, 0, i),
			Quantity:  q,
			Region:    "EU",
			UnitPrice: 10,
			Revenue:   float64(q) * 10,
		})
	}
	_, err = st.ReplaceSales(ctx, records)
	assert.NoError(t, err)
	return st
}

// stalledEstimator simulates an estimator that never responds: it blocks
// until its client-side timeout fires.
type stalledEstimator struct {
	timeout time.Duration
}

func (s stalledEstimator) Predict(ctx context.Context, req Request) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	<-ctx.Done()
	return nil, ctx.Err()
}

type failingEstimator struct{}

func (failingEstimator) Predict(ctx context.Context, req Request) (*Result, error) {
	return nil, errors.New("401 unauthorized")
}

func TestGenerateFallbackOnly(t *testing.T) {
	st := seedStore(t)
	engine := New(st, nil, false)

	result, err := engine.Generate(context.Background(), 30, "All", "All")
	assert.NoError(t, err)
	assert.Contains(t, result.Analysis, "not configured")
	assert.Len(t, result.Predictions, 2)

	byID := map[string]models.Prediction{}
	for _, p := range result.Predictions {
		byID[p.ProductID] = p
	}

	// Worked example: ads 11.5, trend up, 30 days -> 397.
	assert.Equal(t, 397, byID["P1"].PredictedDemand)
	assert.True(t, byID["P1"].ReorderRecommended)

	// No history: zero demand, 0.5 confidence, never a reorder.
	assert.Equal(t, 0, byID["P2"].PredictedDemand)
	assert.Equal(t, 0.5, byID["P2"].ConfidenceScore)
	assert.False(t, byID["P2"].ReorderRecommended)
}

func TestGenerateRegionalAndRevenue(t *testing.T) {
	st := seedStore(t)
	engine := New(st, nil, false)

	result, err := engine.Generate(context.Background(), 30, "All", "All")
	assert.NoError(t, err)

	// P1 sold only in EU, P2 has no history but a catalog region of EU,
	// so all demand lands there.
	assert.Len(t, result.RegionalForecast, 1)
	eu := result.RegionalForecast[0]
	assert.Equal(t, "EU", eu.Region)
	assert.InDelta(t, 397.0, eu.PredictedDemand, 1e-6)

	// EU average unit price is 10: revenue = round(10 * 397).
	assert.Equal(t, 3970.0, eu.PredictedRevenue)
	assert.Equal(t, 3970.0, result.TotalPredictedRevenue)
}

func TestGeneratePersistsForecast(t *testing.T) {
	st := seedStore(t)
	engine := New(st, nil, false)

	_, err := engine.Generate(context.Background(), 14, "EU", "P1")
	assert.NoError(t, err)

	forecasts, err := st.ListForecasts(context.Background(), 10)
	assert.NoError(t, err)
	assert.Len(t, forecasts, 1)
	assert.Equal(t, 14, forecasts[0].TimeframeDays)
	assert.Equal(t, "EU", forecasts[0].Region)
	assert.Equal(t, "P1", forecasts[0].ProductID)
	assert.NotEmpty(t, forecasts[0].Predictions)
}

func TestGenerateDegradesOnEstimatorTimeout(t *testing.T) {
	st := seedStore(t)

	timeout := 200 * time.Millisecond
	engine := New(st, stalledEstimator{timeout: timeout}, true)

	started := time.Now()
	result, err := engine.Generate(context.Background(), 30, "All", "All")
	elapsed := time.Since(started)

	assert.NoError(t, err)
	assert.Less(t, elapsed, timeout+500*time.Millisecond)
	assert.Contains(t, result.Analysis, "unavailable")

	// Degraded output equals the pure fallback output.
	fallbackEngine := New(st, nil, false)
	fallbackResult, err := fallbackEngine.Generate(context.Background(), 30, "All", "All")
	assert.NoError(t, err)
	assert.Equal(t, fallbackResult.Predictions, result.Predictions)
}

func TestGenerateDegradesOnEstimatorError(t *testing.T) {
	st := seedStore(t)
	engine := New(st, failingEstimator{}, true)

	result, err := engine.Generate(context.Background(), 30, "All", "All")
	assert.NoError(t, err)
	assert.Contains(t, result.Analysis, "401 unauthorized")
	assert.Len(t, result.Predictions, 2)
}

func TestGenerateDefaultsTimeframe(t *testing.T) {
	st := seedStore(t)
	engine := New(st, nil, false)

	result, err := engine.Generate(context.Background(), 0, "", "")
	assert.NoError(t, err)
	assert.Equal(t, DefaultTimeframeDays, result.TimeframeDays)
	assert.Equal(t, "All", result.Region)
	assert.Equal(t, "All", result.ProductID)
}

func TestGenerateProjectedTrendSeparateFromPredictions(t *testing.T) {
	st := seedStore(t)
	engine := New(st, nil, false)

	result, err := engine.Generate(context.Background(), 30, "All", "All")
	assert.NoError(t, err)
	assert.Len(t, result.ProjectedTrend, 30)

	// The projected series is chart decoration; predictions stay
	// deterministic across runs regardless of its noise.
	again, err := engine.Generate(context.Background(), 30, "All", "All")
	assert.NoError(t, err)
	assert.Equal(t, result.Predictions, again.Predictions)

	for _, pt := range result.ProjectedTrend {
		assert.GreaterOrEqual(t, pt.Quantity, 0)
	}
}
