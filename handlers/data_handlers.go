package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"app/models"
	"app/utils"
)

// HandleGetOverview returns dashboard aggregates for all sales history.
// GET /api/data/overview
func HandleGetOverview(c *fiber.Ctx) error {
	overview, err := dataStore.Overview(c.Context())
	if err != nil {
		log.Printf("Error building overview: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to build overview"})
	}

	// A recent slice of raw records accompanies the aggregates for the
	// dashboard table.
	recent, _, err := dataStore.RecentSales(c.Context(), 100, 0)
	if err != nil {
		log.Printf("Error fetching recent sales: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch recent sales"})
	}

	return c.JSON(fiber.Map{
		"totalRevenue":  overview.TotalRevenue,
		"totalQuantity": overview.TotalQuantity,
		"recordCount":   overview.RecordCount,
		"salesByRegion": overview.SalesByRegion,
		"salesTrends":   overview.SalesTrends,
		"recentSales":   recent,
	})
}

// HandleListSales lists sales history, newest first, paginated.
// GET /api/data/sales
func HandleListSales(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", 10)

	pagination := utils.CreatePagination(0, page, pageSize)
	records, total, err := dataStore.RecentSales(c.Context(), pagination.PageSize, pagination.Offset())
	if err != nil {
		log.Printf("Error listing sales: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve sales"})
	}
	pagination = utils.CreatePagination(total, page, pageSize)

	return c.JSON(fiber.Map{
		"status":     "success",
		"data":       records,
		"pagination": pagination,
	})
}

// HandleGetProducts returns the full product catalog.
// GET /api/data/products
func HandleGetProducts(c *fiber.Ctx) error {
	products, err := dataStore.ListProducts(c.Context(), models.SalesFilter{})
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve products"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": products})
}
