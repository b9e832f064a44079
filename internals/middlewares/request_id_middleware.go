package middlewares

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// RequestID memberi setiap request id (pakai header klien bila ada) dan
// mencatat durasi + status di akhir.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("request_id", rid)
		c.Set(HeaderRequestID, rid)

		start := time.Now()
		err := c.Next()
		log.Printf("[REQ] %s %s %s -> %d (%s)", rid, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	}
}
