// file: internals/features/users/auth/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	controller "smarttester_backend/internals/features/users/auth/controller"
	rateLimiter "smarttester_backend/internals/middlewares"
	authMiddleware "smarttester_backend/internals/middlewares/auth"
)

// AuthRoutes: base /api/auth. RateLimit=false untuk test.
func AuthRoutes(api fiber.Router, ac *controller.AuthController, authJWT fiber.Handler, rateLimit bool) {
	baseAuth := api.Group("/auth")

	login := []fiber.Handler{}
	register := []fiber.Handler{}
	changePassword := []fiber.Handler{authJWT}
	if rateLimit {
		login = append(login, rateLimiter.LoginRateLimiter())
		register = append(register, rateLimiter.RegisterRateLimiter())
		changePassword = append(changePassword, rateLimiter.ChangePasswordRateLimiter())
	}

	// 🔓 Public
	baseAuth.Post("/login", append(login, ac.Login)...)
	baseAuth.Post("/register", append(register, ac.Register)...)

	// 🔐 Protected
	baseAuth.Get("/me", authJWT, ac.Me)
	baseAuth.Post("/change-password", append(changePassword, ac.ChangePassword)...)
	baseAuth.Post("/parents", authJWT, authMiddleware.TeacherOnly("link parent"), ac.LinkParent)
}
