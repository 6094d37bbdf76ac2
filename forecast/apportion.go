package forecast

import (
	"math"
	"sort"

	"app/models"
)

// unknownRegion buckets demand for products with no sales history and no
// catalog region.
const unknownRegion = "Unknown"

// Apportion distributes each product's predicted demand across regions in
// proportion to its historical regional sales share. Products without any
// history are attributed wholly to their catalog region, or to "Unknown"
// when the catalog has none.
func Apportion(predictions []models.Prediction, share map[string]map[string]int, products []models.Product) map[string]float64 {
	regionByProduct := make(map[string]*string, len(products))
	for _, p := range products {
		regionByProduct[p.ProductID] = p.Region
	}

	demand := map[string]float64{}
	for _, pred := range predictions {
		regions := share[pred.ProductID]

		total := 0
		for _, qty := range regions {
			total += qty
		}

		if total <= 0 {
			region := unknownRegion
			if r := regionByProduct[pred.ProductID]; r != nil && *r != "" {
				region = *r
			}
			demand[region] += float64(pred.PredictedDemand)
			continue
		}

		for region, qty := range regions {
			demand[region] += float64(pred.PredictedDemand) * float64(qty) / float64(total)
		}
	}
	return demand
}

// ProjectRevenue prices each region's predicted demand at that region's
// historical average unit price. Regions without price history contribute
// zero revenue. Output is sorted by region for stable responses.
func ProjectRevenue(demand map[string]float64, records []models.SalesRecord) ([]models.RegionalForecast, float64) {
	priceSum := map[string]float64{}
	priceCount := map[string]int{}
	for _, rec := range records {
		priceSum[rec.Region] += rec.UnitPrice
		priceCount[rec.Region]++
	}

	forecasts := make([]models.RegionalForecast, 0, len(demand))
	total := 0.0
	for region, qty := range demand {
		revenue := 0.0
		if n := priceCount[region]; n > 0 {
			avgPrice := priceSum[region] / float64(n)
			revenue = math.Round(avgPrice * qty)
		}
		total += revenue
		forecasts = append(forecasts, models.RegionalForecast{
			Region:           region,
			PredictedDemand:  qty,
			PredictedRevenue: revenue,
		})
	}
	sort.Slice(forecasts, func(i, j int) bool { return forecasts[i].Region < forecasts[j].Region })
	return forecasts, total
}
