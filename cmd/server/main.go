package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/sitetraffic/backend/internal/delivery/http"
	"github.com/sitetraffic/backend/internal/repository/postgres"
	"github.com/sitetraffic/backend/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Configuration
	cfg := loadConfig()

	// Database connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("Warning: Could not connect to database: %v", err)
		log.Println("Running with deterministic mock data only")
		pool = nil
	} else {
		defer pool.Close()
		log.Println("Connected to PostgreSQL")
	}

	// Dependency Injection: Repositories
	var dataRepo service.DataRepository
	if pool != nil {
		dataRepo = postgres.NewPostgresRepository(pool)
	} else {
		dataRepo = postgres.NewMockRepository()
	}

	// Dependency Injection: Services
	var bridge *service.NetworkBridge
	if cfg.GeoServiceURL != "" {
		bridge = service.NewNetworkBridge(cfg.GeoServiceURL)
	}
	weekCache := service.NewWeekCache(cfg.CacheMaxWeeks)
	simSvc := service.NewSimulationService(dataRepo, bridge, weekCache, cfg.CounterBlend)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "SiteTraffic API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	http.SetupRoutes(app, simSvc, dataRepo)

	// Graceful shutdown
	go func() {
		port := cfg.Port
		if port == "" {
			port = "8080"
		}
		log.Printf("Server starting on :%s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}

type Config struct {
	DatabaseURL   string
	GeoServiceURL string
	Port          string
	Env           string
	CacheMaxWeeks int
	CounterBlend  bool
}

func loadConfig() *Config {
	return &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		GeoServiceURL: getEnv("GEO_SERVICE_URL", ""),
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("GO_ENV", "development"),
		CacheMaxWeeks: getEnvInt("CACHE_MAX_WEEKS", 16),
		CounterBlend:  getEnv("COUNTER_BLEND", "true") != "false",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
