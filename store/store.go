package store

import (
	"context"
	"errors"

	"app/models"
)

var ErrNotFound = errors.New("not found")

// Store is the historical data store consumed by the forecast engine and
// the HTTP handlers. Reads are snapshot-at-call-time; the Replace methods
// implement the destructive re-upload policy as a single transactional
// delete-then-insert, so concurrent readers never observe an empty window.
type Store interface {
	ListSales(ctx context.Context, filter models.SalesFilter) ([]models.SalesRecord, error)
	RecentSales(ctx context.Context, limit, offset int) ([]models.SalesRecord, int, error)
	ListProducts(ctx context.Context, filter models.SalesFilter) ([]models.Product, error)
	Overview(ctx context.Context) (*models.Overview, error)

	// ReplaceProducts swaps the entire catalog and purges the forecast log.
	ReplaceProducts(ctx context.Context, products []models.Product) (int, error)
	// ReplaceSales swaps the entire sales history and purges the forecast log.
	ReplaceSales(ctx context.Context, records []models.SalesRecord) (int, error)

	AppendForecast(ctx context.Context, f models.Forecast) (string, error)
	ListForecasts(ctx context.Context, limit int) ([]models.Forecast, error)
}
