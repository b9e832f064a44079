package route

import (
	"github.com/gofiber/fiber/v2"

	"smarttester_backend/internals/features/users/user/controller"
	authMiddleware "smarttester_backend/internals/middlewares/auth"
)

func UserRoutes(api fiber.Router, uc *controller.UserController, authJWT fiber.Handler) {
	api.Get("/users", authJWT, authMiddleware.TeacherOnly("user directory"), uc.ListUsers)
}
