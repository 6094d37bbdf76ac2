package forecast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"app/models"
)

func fallbackRequest(days int, products []models.Product, seriesByID map[string][]models.DailyPoint) Request {
	metrics := map[string]Metrics{}
	for pid, s := range seriesByID {
		metrics[pid] = ComputeMetrics(s)
	}
	return Request{
		TimeframeDays: days,
		Products:      products,
		Series:        seriesByID,
		Metrics:       metrics,
	}
}

func TestStatisticalWorkedExample(t *testing.T) {
	products := []models.Product{{ProductID: "P1", Name: "Widget", CurrentStock: 200, ReorderThreshold: 10}}
	req := fallbackRequest(30, products, map[string][]models.DailyPoint{
		"P1": series("2024-01-01", 10, 10, 10, 12, 13, 14),
	})

	res, err := Statistical{}.Predict(context.Background(), req)
	assert.NoError(t, err)
	assert.Len(t, res.Predictions, 1)

	p := res.Predictions[0]
	// ads 11.5, trend up: round(11.5 * 30 * 1.15) = 397
	assert.Equal(t, 397, p.PredictedDemand)
	assert.True(t, p.ReorderRecommended)
	assert.Equal(t, "Widget", p.ProductName)
}

func TestStatisticalEmptyHistory(t *testing.T) {
	products := []models.Product{{ProductID: "P2", Name: "Gadget", CurrentStock: 3}}
	req := fallbackRequest(30, products, nil)

	res, err := Statistical{}.Predict(context.Background(), req)
	assert.NoError(t, err)

	p := res.Predictions[0]
	assert.Equal(t, 0, p.PredictedDemand)
	assert.Equal(t, 0.5, p.ConfidenceScore)
	assert.False(t, p.ReorderRecommended)
}

func TestStatisticalTrendAdjustments(t *testing.T) {
	down := fallbackRequest(10, []models.Product{{ProductID: "P1", Name: "A"}}, map[string][]models.DailyPoint{
		"P1": series("2024-01-01", 10, 10, 10, 5, 5, 5),
	})
	res, _ := Statistical{}.Predict(context.Background(), down)
	// ads 45/6 = 7.5, trend down: round(7.5 * 10 * 0.85) = 64
	assert.Equal(t, 64, res.Predictions[0].PredictedDemand)

	stable := fallbackRequest(10, []models.Product{{ProductID: "P1", Name: "A"}}, map[string][]models.DailyPoint{
		"P1": series("2024-01-01", 8, 8, 8, 8),
	})
	res, _ = Statistical{}.Predict(context.Background(), stable)
	assert.Equal(t, 80, res.Predictions[0].PredictedDemand)
}

func TestStatisticalIsDeterministic(t *testing.T) {
	req := fallbackRequest(30, []models.Product{{ProductID: "P1", Name: "A", CurrentStock: 50}}, map[string][]models.DailyPoint{
		"P1": series("2024-01-01", 3, 9, 2, 44, 1, 7, 12),
	})

	first, _ := Statistical{}.Predict(context.Background(), req)
	for i := 0; i < 5; i++ {
		again, _ := Statistical{}.Predict(context.Background(), req)
		assert.Equal(t, first.Predictions, again.Predictions)
	}
}

func TestStatisticalDemandNeverNegative(t *testing.T) {
	req := fallbackRequest(30, []models.Product{{ProductID: "P1", Name: "A"}}, map[string][]models.DailyPoint{
		"P1": series("2024-01-01", 0, 0, 0),
	})
	res, _ := Statistical{}.Predict(context.Background(), req)
	assert.GreaterOrEqual(t, res.Predictions[0].PredictedDemand, 0)
}
