package routes

import (
	"app/handlers"
	"app/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	app.Use(middleware.RequestLogger)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API is running...")
	})

	api := app.Group("/api")

	// --- Upload Routes ---
	upload := api.Group("/upload")
	upload.Post("/products", handlers.HandleUploadProducts)
	upload.Post("/sales", handlers.HandleUploadSales)

	// --- Data Routes ---
	data := api.Group("/data")
	data.Get("/overview", handlers.HandleGetOverview)
	data.Get("/sales", handlers.HandleListSales)
	data.Get("/products", handlers.HandleGetProducts)

	// --- Forecast Routes ---
	forecast := api.Group("/forecast")
	forecast.Post("/generate", handlers.HandleGenerateForecast)
	forecast.Get("/history", handlers.HandleForecastHistory)
}
