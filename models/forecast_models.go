package models

import "time"

// DailyPoint is one day of a quantity series. Date is formatted YYYY-MM-DD.
type DailyPoint struct {
	Date     string `json:"date"`
	Quantity int    `json:"quantity"`
}

// Prediction is the per-product output of a prediction source.
// PredictedDemand is always a non-negative integer regardless of the
// source; fractional estimator output is coerced before it gets here.
type Prediction struct {
	ProductID          string  `json:"productId"`
	ProductName        string  `json:"productName"`
	CurrentStock       int     `json:"currentStock"`
	PredictedDemand    int     `json:"predictedDemand"`
	ConfidenceScore    float64 `json:"confidenceScore"`
	ReorderRecommended bool    `json:"reorderRecommended"`
	ReorderThreshold   int     `json:"reorderThreshold"`
}

// RegionalForecast is a region's share of predicted demand and the revenue
// projected from its historical average unit price.
type RegionalForecast struct {
	Region           string  `json:"region"`
	PredictedDemand  float64 `json:"predictedDemand"`
	PredictedRevenue float64 `json:"predictedRevenue"`
}

// Forecast is the persisted result of one forecast request. The forecast
// log is append-only; re-uploading catalog or sales data purges it.
type Forecast struct {
	ID            string       `json:"id"`
	GeneratedAt   time.Time    `json:"generatedAt"`
	TimeframeDays int          `json:"timeframeDays"`
	Region        string       `json:"region"`
	ProductID     string       `json:"productId"`
	Predictions   []Prediction `json:"predictions"`
	Analysis      string       `json:"analysis"`
}

// ForecastResult is the full response assembled by the forecast engine.
type ForecastResult struct {
	Predictions           []Prediction       `json:"predictions"`
	Analysis              string             `json:"analysis"`
	SalesTrend            []DailyPoint       `json:"salesTrend"`
	ProjectedTrend        []DailyPoint       `json:"projectedTrend"`
	RegionalForecast      []RegionalForecast `json:"regionalForecast"`
	TotalPredictedRevenue float64            `json:"totalPredictedRevenue"`
	TimeframeDays         int                `json:"timeframeDays"`
	Region                string             `json:"region"`
	ProductID             string             `json:"productId"`
}
