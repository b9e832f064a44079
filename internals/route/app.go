package routes

import (
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	helper "smarttester_backend/internals/helpers"
	middlewares "smarttester_backend/internals/middlewares"
	"smarttester_backend/internals/middlewares/logger"
)

type AppOptions struct {
	Options
	BodyLimitMB int
	// Quiet mematikan access log + global limiter (dipakai test)
	Quiet bool
}

// NewApp membangun fiber.App lengkap: codec sonic, middleware, semua route.
func NewApp(repos Repositories, opts AppOptions) *fiber.App {
	bodyLimit := opts.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 16
	}

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          helper.ErrorHandler,
		BodyLimit:             bodyLimit * 1024 * 1024,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	app.Use(middlewares.RecoveryMiddleware())
	if !opts.Quiet {
		app.Use(middlewares.RequestID())
		app.Use(logger.LoggerMiddleware())
	}
	app.Use(middlewares.CorsMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching
	if opts.RateLimit {
		app.Use(middlewares.GlobalRateLimiter())
	}

	BaseRoutes(app, opts.UploadDir)
	SetupRoutes(app, repos, opts.Options)
	return app
}
