package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"app/config"
	"app/database"
	"app/forecast"
	"app/handlers"
	"app/routes"
	"app/store"
	"app/store/memory"
	"app/store/postgres"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	// Load configuration
	config.Load()
	if config.AppConfig.EstimatorEnabled {
		log.Println("GEMINI_API_KEY is configured: AI-powered forecasting is enabled")
	} else {
		log.Println("GEMINI_API_KEY is not configured: forecasting will use the statistical fallback")
	}

	// Initialize the store: PostgreSQL when DATABASE_URL is set, an
	// in-memory store otherwise (demo mode, nothing survives a restart).
	var st store.Store
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		database.Connect(databaseURL)
		defer database.Close()

		st, err = postgres.New(context.Background(), database.GetDB())
		if err != nil {
			log.Fatalf("Failed to initialize store: %v", err)
		}
	} else {
		log.Println("DATABASE_URL is not set, using in-memory store")
		st = memory.New()
	}

	// Wire the forecast engine and handlers.
	estimator := &forecast.GeminiEstimator{
		APIKey:  config.AppConfig.GeminiAPIKey,
		Model:   config.AppConfig.GeminiModel,
		Timeout: config.AppConfig.EstimatorTimeout,
	}
	engine := forecast.New(st, estimator, config.AppConfig.EstimatorEnabled)
	handlers.Configure(st, engine)

	app := fiber.New()

	// Add CORS middleware
	app.Use(cors.New())

	// Setup routes
	routes.SetupRoutes(app)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	log.Fatal(app.Listen(":" + port))
}
