package forecast

import (
	"context"
	"math"

	"app/models"
)

// Request carries everything a prediction source needs for one forecast.
type Request struct {
	TimeframeDays int
	Products      []models.Product
	Series        map[string][]models.DailyPoint
	Metrics       map[string]Metrics
}

// Result is a prediction source's output: one prediction per product plus
// an analysis summary.
type Result struct {
	Analysis    string
	Predictions []models.Prediction
}

// Source produces demand predictions for a set of products. The engine
// selects between the external estimator and the statistical fallback.
type Source interface {
	Predict(ctx context.Context, req Request) (*Result, error)
}

// Statistical is the deterministic fallback source: a moving-average
// projection with a trend adjustment. It never fails.
type Statistical struct{}

var _ Source = (*Statistical)(nil)

// Trend multipliers applied to the moving-average base demand.
const (
	trendUpFactor   = 1.15
	trendDownFactor = 0.85
)

func (Statistical) Predict(ctx context.Context, req Request) (*Result, error) {
	predictions := make([]models.Prediction, 0, len(req.Products))
	for _, p := range req.Products {
		predictions = append(predictions, predictOne(p, req.Metrics[p.ProductID], req.TimeframeDays))
	}
	return &Result{
		Analysis:    "Forecast generated using the statistical moving-average model.",
		Predictions: predictions,
	}, nil
}

func predictOne(p models.Product, m Metrics, days int) models.Prediction {
	pred := models.Prediction{
		ProductID:        p.ProductID,
		ProductName:      p.Name,
		CurrentStock:     p.CurrentStock,
		ReorderThreshold: p.ReorderThreshold,
	}

	// No history: nothing to project from.
	if m.TotalSold == 0 && m.ActiveDays == 0 {
		pred.ConfidenceScore = 0.5
		return pred
	}

	base := m.ADS * float64(days)
	switch m.Trend {
	case TrendUp:
		base *= trendUpFactor
	case TrendDown:
		base *= trendDownFactor
	}

	demand := int(math.Round(base))
	if demand < 0 {
		demand = 0
	}

	pred.PredictedDemand = demand
	pred.ConfidenceScore = roundScore(m.Confidence)
	pred.ReorderRecommended = p.CurrentStock < demand
	return pred
}

// roundScore trims a confidence score to two decimals for presentation.
func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
