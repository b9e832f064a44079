package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError mengubah error (biasanya *fiber.Error hasil Transaction atau
// middleware) menjadi response JSON konsisten via JsonError.
// Jika bukan *fiber.Error, fallback ke 500.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonInternal(c, "Internal server error", err)
}

// ErrorHandler dipasang di fiber.Config agar error yang lolos dari handler
// tetap keluar dengan bentuk JSON yang sama.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromFiberError(c, err)
}
