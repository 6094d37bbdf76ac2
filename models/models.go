package models

import "time"

// --- Core Models ---

// SalesRecord is a single historical sales fact. Records are created only
// by ingestion and never mutated afterwards.
type SalesRecord struct {
	ID        string    `json:"id,omitempty"`
	ProductID string    `json:"productId"`
	Date      time.Time `json:"date"`
	Quantity  int       `json:"quantity"`
	Region    string    `json:"region"`
	UnitPrice float64   `json:"unitPrice"`
	Revenue   float64   `json:"revenue"`
}

// Product represents a catalog entry. The region field is the catalog
// default and may diverge from the regions a product actually sold in.
type Product struct {
	ProductID        string  `json:"productId"`
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	Region           *string `json:"region,omitempty"`
	UnitPrice        float64 `json:"unitPrice"`
	CurrentStock     int     `json:"currentStock"`
	ReorderThreshold int     `json:"reorderThreshold"`
}

// SalesFilter narrows store reads by region and/or product.
// An empty or "All" value means no filter on that axis.
type SalesFilter struct {
	Region    string
	ProductID string
}

// IsAll reports whether a filter value disables filtering on its axis.
func IsAll(v string) bool {
	return v == "" || v == "All"
}

// --- Dashboard Models ---

// RegionSummary aggregates historical sales for one region.
type RegionSummary struct {
	Region   string  `json:"region"`
	Revenue  float64 `json:"revenue"`
	Quantity int     `json:"quantity"`
}

// TrendPoint is one day of combined revenue and quantity.
type TrendPoint struct {
	Date     string  `json:"date"`
	Revenue  float64 `json:"revenue"`
	Quantity int     `json:"quantity"`
}

// Overview is the dashboard summary of all historical sales.
type Overview struct {
	TotalRevenue  float64         `json:"totalRevenue"`
	TotalQuantity int             `json:"totalQuantity"`
	RecordCount   int             `json:"recordCount"`
	SalesByRegion []RegionSummary `json:"salesByRegion"`
	SalesTrends   []TrendPoint    `json:"salesTrends"`
}
