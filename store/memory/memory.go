package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"app/models"
)

// Store is an in-memory implementation of store.Store. It backs the test
// suite and keyless demo mode (no DATABASE_URL configured).
type Store struct {
	mu        sync.RWMutex
	products  []models.Product
	sales     []models.SalesRecord
	forecasts []models.Forecast
	nextID    int
}

func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) ListSales(ctx context.Context, filter models.SalesFilter) ([]models.SalesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.SalesRecord
	for _, rec := range s.sales {
		if !models.IsAll(filter.Region) && rec.Region != filter.Region {
			continue
		}
		if !models.IsAll(filter.ProductID) && rec.ProductID != filter.ProductID {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) RecentSales(ctx context.Context, limit, offset int) ([]models.SalesRecord, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sorted := make([]models.SalesRecord, len(s.sales))
	copy(sorted, s.sales)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	total := len(sorted)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return sorted[offset:end], total, nil
}

func (s *Store) ListProducts(ctx context.Context, filter models.SalesFilter) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Product
	for _, p := range s.products {
		if !models.IsAll(filter.Region) && (p.Region == nil || *p.Region != filter.Region) {
			continue
		}
		if !models.IsAll(filter.ProductID) && p.ProductID != filter.ProductID {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (s *Store) Overview(ctx context.Context) (*models.Overview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ov := &models.Overview{RecordCount: len(s.sales)}
	regions := map[string]*models.RegionSummary{}
	trends := map[string]*models.TrendPoint{}

	for _, rec := range s.sales {
		ov.TotalRevenue += rec.Revenue
		ov.TotalQuantity += rec.Quantity

		rs, ok := regions[rec.Region]
		if !ok {
			rs = &models.RegionSummary{Region: rec.Region}
			regions[rec.Region] = rs
		}
		rs.Revenue += rec.Revenue
		rs.Quantity += rec.Quantity

		day := rec.Date.Format("2006-01-02")
		tp, ok := trends[day]
		if !ok {
			tp = &models.TrendPoint{Date: day}
			trends[day] = tp
		}
		tp.Revenue += rec.Revenue
		tp.Quantity += rec.Quantity
	}

	for _, rs := range regions {
		ov.SalesByRegion = append(ov.SalesByRegion, *rs)
	}
	sort.Slice(ov.SalesByRegion, func(i, j int) bool { return ov.SalesByRegion[i].Region < ov.SalesByRegion[j].Region })

	for _, tp := range trends {
		ov.SalesTrends = append(ov.SalesTrends, *tp)
	}
	sort.Slice(ov.SalesTrends, func(i, j int) bool { return ov.SalesTrends[i].Date < ov.SalesTrends[j].Date })

	return ov, nil
}

func (s *Store) ReplaceProducts(ctx context.Context, products []models.Product) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.forecasts = nil
	s.products = make([]models.Product, len(products))
	copy(s.products, products)
	return len(products), nil
}

func (s *Store) ReplaceSales(ctx context.Context, records []models.SalesRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.forecasts = nil
	s.sales = make([]models.SalesRecord, len(records))
	copy(s.sales, records)
	return len(records), nil
}

func (s *Store) AppendForecast(ctx context.Context, f models.Forecast) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f.ID = fmt.Sprint(s.nextID)
	s.nextID++
	if f.GeneratedAt.IsZero() {
		f.GeneratedAt = time.Now().UTC()
	}
	s.forecasts = append(s.forecasts, f)
	return f.ID, nil
}

func (s *Store) ListForecasts(ctx context.Context, limit int) ([]models.Forecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Forecast, len(s.forecasts))
	copy(out, s.forecasts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].GeneratedAt.After(out[j].GeneratedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
