package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"smarttester_backend/internals/configs"
	database "smarttester_backend/internals/databases"
)

var startTime = time.Now()

func BaseRoutes(app *fiber.App, uploadDir string) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("SmartTester API is running 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if configs.Store == configs.StoreMemory {
			dbStatus = "In-memory"
		} else if err := database.Ping(); err != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    configs.AppEnv,
		})
	})

	app.Static("/uploads", uploadDir, fiber.Static{
		MaxAge: 3600,
	})
}
