package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// GenerateForecastInput is the request body for forecast generation.
type GenerateForecastInput struct {
	Days      int    `json:"days"`
	Region    string `json:"region"`
	ProductID string `json:"productId"`
}

// HandleGenerateForecast runs the forecast pipeline.
// POST /api/forecast/generate
//
// The response is always 200 with best-effort data; only store failures
// surface as a server error.
func HandleGenerateForecast(c *fiber.Ctx) error {
	var input GenerateForecastInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	result, err := engine.Generate(c.Context(), input.Days, input.Region, input.ProductID)
	if err != nil {
		log.Printf("Error generating forecast: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to generate forecast"})
	}

	return c.JSON(result)
}

// HandleForecastHistory returns recent persisted forecasts, newest first.
// GET /api/forecast/history
func HandleForecastHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	forecasts, err := dataStore.ListForecasts(c.Context(), limit)
	if err != nil {
		log.Printf("Error listing forecasts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to retrieve forecast history"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": forecasts})
}
