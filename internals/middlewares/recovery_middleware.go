package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"smarttester_backend/internals/configs"
)

// RecoveryMiddleware menangkap panic; ErrorHandler app yang menulis 500-nya.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: !configs.IsProduction(),
	})
}
