// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	helper "smarttester_backend/internals/helpers"
	helperAuth "smarttester_backend/internals/helpers/auth"
)

type AuthJWTOpts struct {
	Secret string
}

// AuthJWT memverifikasi credential Bearer lalu menyimpan identity ke Locals.
// Header kosong / format salah → 401; signature, exp atau claims gagal → 403.
func AuthJWT(opts AuthJWTOpts) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
		}

		if opts.Secret == "" {
			log.Println("[ERROR] JWT_SECRET kosong")
			return helper.JsonError(c, fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		id, err := helperAuth.ParseToken(opts.Secret, tokenString)
		if err != nil {
			if !errors.Is(err, helperAuth.ErrInvalidToken) {
				log.Println("[ERROR] Gagal parse token:", err)
			}
			return helper.JsonError(c, fiber.StatusForbidden, "forbidden - invalid or expired token")
		}

		helperAuth.StoreIdentity(c, id)
		return c.Next()
	}
}
