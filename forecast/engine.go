package forecast

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"app/models"
	"app/store"
)

// Engine runs the forecast pipeline: collect history, compute metrics,
// predict, apportion regionally, project revenue, persist.
type Engine struct {
	store     store.Store
	estimator Source
	enabled   bool
	fallback  Statistical
}

// New builds an engine. The enabled flag is the external-estimator
// capability decided by configuration; with it false (or estimator nil)
// every request uses the statistical fallback.
func New(st store.Store, estimator Source, enabled bool) *Engine {
	return &Engine{store: st, estimator: estimator, enabled: enabled && estimator != nil}
}

// DefaultTimeframeDays is used when the caller omits the horizon.
const DefaultTimeframeDays = 30

// Generate produces a forecast for the requested horizon and filters.
// Estimator failures degrade to the fallback and still succeed; store and
// aggregation failures are fatal to the request.
func (e *Engine) Generate(ctx context.Context, timeframeDays int, region, productID string) (*models.ForecastResult, error) {
	if timeframeDays <= 0 {
		timeframeDays = DefaultTimeframeDays
	}
	if region == "" {
		region = "All"
	}
	if productID == "" {
		productID = "All"
	}

	filter := models.SalesFilter{Region: region, ProductID: productID}

	// CollectingHistory
	records, err := e.store.ListSales(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales history: %w", err)
	}
	products, err := e.store.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load product catalog: %w", err)
	}

	agg := Aggregate(records, region, productID)

	// ComputingMetrics
	metrics := make(map[string]Metrics, len(agg.Series))
	for pid, series := range agg.Series {
		metrics[pid] = ComputeMetrics(series)
	}

	req := Request{
		TimeframeDays: timeframeDays,
		Products:      products,
		Series:        agg.Series,
		Metrics:       metrics,
	}

	// Predicting, with the single error-absorbing edge: any estimator
	// failure re-runs this stage on the fallback.
	var result *Result
	if e.enabled {
		result, err = e.estimator.Predict(ctx, req)
		if err != nil {
			log.Printf("Estimator failed, using statistical fallback: %v", err)
			result, _ = e.fallback.Predict(ctx, req)
			result.Analysis += fmt.Sprintf(" (AI estimator unavailable: %v)", err)
		}
	} else {
		result, _ = e.fallback.Predict(ctx, req)
		result.Analysis += " (AI estimator not configured.)"
	}

	// Apportioning
	regionalDemand := Apportion(result.Predictions, agg.RegionShare, products)

	// ProjectingRevenue
	regional, totalRevenue := ProjectRevenue(regionalDemand, filteredRecords(records, region, productID))

	// Persisting
	forecast := models.Forecast{
		GeneratedAt:   time.Now().UTC(),
		TimeframeDays: timeframeDays,
		Region:        region,
		ProductID:     productID,
		Predictions:   result.Predictions,
		Analysis:      result.Analysis,
	}
	if _, err := e.store.AppendForecast(ctx, forecast); err != nil {
		return nil, fmt.Errorf("failed to persist forecast: %w", err)
	}

	return &models.ForecastResult{
		Predictions:           result.Predictions,
		Analysis:              result.Analysis,
		SalesTrend:            agg.Trend,
		ProjectedTrend:        projectedTrend(agg.Trend, result.Predictions, timeframeDays),
		RegionalForecast:      regional,
		TotalPredictedRevenue: totalRevenue,
		TimeframeDays:         timeframeDays,
		Region:                region,
		ProductID:             productID,
	}, nil
}

func filteredRecords(records []models.SalesRecord, region, productID string) []models.SalesRecord {
	if models.IsAll(region) && models.IsAll(productID) {
		return records
	}
	var out []models.SalesRecord
	for _, rec := range records {
		if !models.IsAll(region) && rec.Region != region {
			continue
		}
		if !models.IsAll(productID) && rec.ProductID != productID {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// projectedTrend extends the historical trend into the horizon for
// charting. Daily values spread the total predicted demand evenly with
// ±10% synthetic noise; this series is decorative and deliberately kept
// apart from the deterministic predictedDemand figures.
func projectedTrend(trend []models.DailyPoint, predictions []models.Prediction, days int) []models.DailyPoint {
	totalDemand := 0
	for _, p := range predictions {
		totalDemand += p.PredictedDemand
	}

	start := time.Now().UTC()
	if len(trend) > 0 {
		if last, err := parseDay(trend[len(trend)-1].Date); err == nil {
			start = last
		}
	}

	perDay := float64(totalDemand) / float64(days)
	out := make([]models.DailyPoint, 0, days)
	for i := 1; i <= days; i++ {
		noisy := perDay * (0.9 + rand.Float64()*0.2)
		qty := int(math.Round(noisy))
		if qty < 0 {
			qty = 0
		}
		out = append(out, models.DailyPoint{
			Date:     start.AddDate(0, 0, i).Format(dateLayout),
			Quantity: qty,
		})
	}
	return out
}
