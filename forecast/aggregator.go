package forecast

import (
	"sort"
	"time"

	"app/models"
)

const dateLayout = "2006-01-02"

// Aggregates is the grouped view of raw sales history that the rest of
// the pipeline works from.
type Aggregates struct {
	// Series holds each product's daily quantity series, date ascending,
	// with same-day quantities summed.
	Series map[string][]models.DailyPoint
	// Trend is the combined daily total across all filtered products.
	Trend []models.DailyPoint
	// RegionShare maps productId -> region -> total quantity sold, the
	// historical share table used for apportionment.
	RegionShare map[string]map[string]int
}

// Aggregate groups raw sales rows per product and per day. Filters are a
// conjunction; "All" or empty disables a filter axis. Pure function of its
// inputs.
func Aggregate(records []models.SalesRecord, region, productID string) *Aggregates {
	byProductDay := map[string]map[string]int{}
	byDay := map[string]int{}
	share := map[string]map[string]int{}

	for _, rec := range records {
		if !models.IsAll(region) && rec.Region != region {
			continue
		}
		if !models.IsAll(productID) && rec.ProductID != productID {
			continue
		}

		day := rec.Date.Format(dateLayout)

		days, ok := byProductDay[rec.ProductID]
		if !ok {
			days = map[string]int{}
			byProductDay[rec.ProductID] = days
		}
		days[day] += rec.Quantity

		byDay[day] += rec.Quantity

		regions, ok := share[rec.ProductID]
		if !ok {
			regions = map[string]int{}
			share[rec.ProductID] = regions
		}
		regions[rec.Region] += rec.Quantity
	}

	agg := &Aggregates{
		Series:      make(map[string][]models.DailyPoint, len(byProductDay)),
		RegionShare: share,
	}
	for pid, days := range byProductDay {
		agg.Series[pid] = sortedSeries(days)
	}
	agg.Trend = sortedSeries(byDay)
	return agg
}

func sortedSeries(byDay map[string]int) []models.DailyPoint {
	series := make([]models.DailyPoint, 0, len(byDay))
	for day, qty := range byDay {
		series = append(series, models.DailyPoint{Date: day, Quantity: qty})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}

// parseDay parses a YYYY-MM-DD series date. Series dates are produced by
// Aggregate, so a parse failure indicates a logic defect upstream.
func parseDay(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
