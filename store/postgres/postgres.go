package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"app/models"
	"app/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	product_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	region TEXT,
	unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
	current_stock INTEGER NOT NULL DEFAULT 0,
	reorder_threshold INTEGER NOT NULL DEFAULT 10
);

CREATE TABLE IF NOT EXISTS sales_records (
	id BIGSERIAL PRIMARY KEY,
	product_id TEXT NOT NULL,
	sale_date DATE NOT NULL,
	quantity INTEGER NOT NULL,
	region TEXT NOT NULL,
	unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
	revenue DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_sales_records_product ON sales_records (product_id);
CREATE INDEX IF NOT EXISTS idx_sales_records_date ON sales_records (sale_date);

CREATE TABLE IF NOT EXISTS forecasts (
	id BIGSERIAL PRIMARY KEY,
	generated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	timeframe_days INTEGER NOT NULL,
	region TEXT NOT NULL DEFAULT 'All',
	product_id TEXT NOT NULL DEFAULT 'All',
	predictions JSONB NOT NULL DEFAULT '[]',
	analysis TEXT NOT NULL DEFAULT ''
);
`

// Store implements store.Store on top of PostgreSQL.
type Store struct {
	db *pgxpool.Pool
}

// New wraps an existing connection pool and ensures the schema exists.
func New(ctx context.Context, db *pgxpool.Pool) (*Store, error) {
	if _, err := db.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) ListSales(ctx context.Context, filter models.SalesFilter) ([]models.SalesRecord, error) {
	query := `
		SELECT id, product_id, sale_date, quantity, region, unit_price, revenue
		FROM sales_records
		WHERE ($1 = '' OR region = $1)
		  AND ($2 = '' OR product_id = $2)
		ORDER BY sale_date ASC, id ASC
	`
	region, productID := normalize(filter.Region), normalize(filter.ProductID)

	rows, err := s.db.Query(ctx, query, region, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales records: %w", err)
	}
	defer rows.Close()

	var records []models.SalesRecord
	for rows.Next() {
		var rec models.SalesRecord
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.Date, &rec.Quantity, &rec.Region, &rec.UnitPrice, &rec.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan sales record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) RecentSales(ctx context.Context, limit, offset int) ([]models.SalesRecord, int, error) {
	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM sales_records`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sales records: %w", err)
	}

	query := `
		SELECT id, product_id, sale_date, quantity, region, unit_price, revenue
		FROM sales_records
		ORDER BY sale_date DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query recent sales: %w", err)
	}
	defer rows.Close()

	var records []models.SalesRecord
	for rows.Next() {
		var rec models.SalesRecord
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.Date, &rec.Quantity, &rec.Region, &rec.UnitPrice, &rec.Revenue); err != nil {
			return nil, 0, fmt.Errorf("failed to scan sales record: %w", err)
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

func (s *Store) ListProducts(ctx context.Context, filter models.SalesFilter) ([]models.Product, error) {
	query := `
		SELECT product_id, name, category, region, unit_price, current_stock, reorder_threshold
		FROM products
		WHERE ($1 = '' OR region = $1)
		  AND ($2 = '' OR product_id = $2)
		ORDER BY product_id ASC
	`
	region, productID := normalize(filter.Region), normalize(filter.ProductID)

	rows, err := s.db.Query(ctx, query, region, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		var region sql.NullString
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Category, &region, &p.UnitPrice, &p.CurrentStock, &p.ReorderThreshold); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Region = utils.NullStringToStringPtr(region)
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) Overview(ctx context.Context) (*models.Overview, error) {
	ov := &models.Overview{}

	totalsQuery := `
		SELECT COALESCE(SUM(revenue), 0), COALESCE(SUM(quantity), 0), COUNT(*)
		FROM sales_records
	`
	if err := s.db.QueryRow(ctx, totalsQuery).Scan(&ov.TotalRevenue, &ov.TotalQuantity, &ov.RecordCount); err != nil {
		return nil, fmt.Errorf("failed to query sales totals: %w", err)
	}

	regionQuery := `
		SELECT region, SUM(revenue), SUM(quantity)
		FROM sales_records
		GROUP BY region
		ORDER BY region ASC
	`
	rows, err := s.db.Query(ctx, regionQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query region summaries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rs models.RegionSummary
		if err := rows.Scan(&rs.Region, &rs.Revenue, &rs.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan region summary: %w", err)
		}
		ov.SalesByRegion = append(ov.SalesByRegion, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trendQuery := `
		SELECT to_char(sale_date, 'YYYY-MM-DD'), SUM(revenue), SUM(quantity)
		FROM sales_records
		GROUP BY sale_date
		ORDER BY sale_date ASC
	`
	trendRows, err := s.db.Query(ctx, trendQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales trends: %w", err)
	}
	defer trendRows.Close()
	for trendRows.Next() {
		var tp models.TrendPoint
		if err := trendRows.Scan(&tp.Date, &tp.Revenue, &tp.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan trend point: %w", err)
		}
		ov.SalesTrends = append(ov.SalesTrends, tp)
	}
	return ov, trendRows.Err()
}

func (s *Store) ReplaceProducts(ctx context.Context, products []models.Product) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Full replace: prior catalog rows and any forecasts derived from them
	// are removed before the new rows go in.
	if _, err := tx.Exec(ctx, `DELETE FROM forecasts`); err != nil {
		return 0, fmt.Errorf("failed to purge forecast history: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM products`); err != nil {
		return 0, fmt.Errorf("failed to clear product catalog: %w", err)
	}

	insert := `
		INSERT INTO products (product_id, name, category, region, unit_price, current_stock, reorder_threshold)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, p := range products {
		if _, err := tx.Exec(ctx, insert, p.ProductID, p.Name, p.Category, p.Region, p.UnitPrice, p.CurrentStock, p.ReorderThreshold); err != nil {
			return 0, fmt.Errorf("failed to insert product %s: %w", p.ProductID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit catalog replace: %w", err)
	}
	log.Printf("Product catalog replaced: %d rows", len(products))
	return len(products), nil
}

func (s *Store) ReplaceSales(ctx context.Context, records []models.SalesRecord) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM forecasts`); err != nil {
		return 0, fmt.Errorf("failed to purge forecast history: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM sales_records`); err != nil {
		return 0, fmt.Errorf("failed to clear sales history: %w", err)
	}

	insert := `
		INSERT INTO sales_records (product_id, sale_date, quantity, region, unit_price, revenue)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, rec := range records {
		if _, err := tx.Exec(ctx, insert, rec.ProductID, rec.Date, rec.Quantity, rec.Region, rec.UnitPrice, rec.Revenue); err != nil {
			return 0, fmt.Errorf("failed to insert sales record for %s: %w", rec.ProductID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit sales replace: %w", err)
	}
	log.Printf("Sales history replaced: %d rows", len(records))
	return len(records), nil
}

func (s *Store) AppendForecast(ctx context.Context, f models.Forecast) (string, error) {
	preds, err := json.Marshal(f.Predictions)
	if err != nil {
		return "", fmt.Errorf("failed to serialize predictions: %w", err)
	}

	query := `
		INSERT INTO forecasts (timeframe_days, region, product_id, predictions, analysis)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	if err := s.db.QueryRow(ctx, query, f.TimeframeDays, f.Region, f.ProductID, preds, f.Analysis).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to append forecast: %w", err)
	}
	return fmt.Sprint(id), nil
}

func (s *Store) ListForecasts(ctx context.Context, limit int) ([]models.Forecast, error) {
	query := `
		SELECT id, generated_at, timeframe_days, region, product_id, predictions, analysis
		FROM forecasts
		ORDER BY generated_at DESC, id DESC
		LIMIT $1
	`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecasts: %w", err)
	}
	defer rows.Close()

	var forecasts []models.Forecast
	for rows.Next() {
		var f models.Forecast
		var id int64
		var preds []byte
		if err := rows.Scan(&id, &f.GeneratedAt, &f.TimeframeDays, &f.Region, &f.ProductID, &preds, &f.Analysis); err != nil {
			return nil, fmt.Errorf("failed to scan forecast: %w", err)
		}
		f.ID = fmt.Sprint(id)
		if err := json.Unmarshal(preds, &f.Predictions); err != nil {
			return nil, fmt.Errorf("failed to decode forecast predictions: %w", err)
		}
		forecasts = append(forecasts, f)
	}
	return forecasts, rows.Err()
}

// normalize maps the "All" sentinel to the empty string used in queries.
func normalize(v string) string {
	if models.IsAll(v) {
		return ""
	}
	return v
}
