package route

import (
	"github.com/gofiber/fiber/v2"

	"smarttester_backend/internals/features/school/classes/controller"
	authMiddleware "smarttester_backend/internals/middlewares/auth"
)

func ClassRoutes(api fiber.Router, cc *controller.ClassController, authJWT fiber.Handler) {
	// publik: dipakai form registrasi
	api.Get("/auth/classes", cc.ListClasses)

	classes := api.Group("/classes", authJWT)
	classes.Get("/", cc.ListClasses)
	classes.Post("/", authMiddleware.TeacherOnly("classes"), cc.CreateClass)
	classes.Get("/:classId/students", authMiddleware.TeacherOnly("class roster"), cc.ListRoster)

	// path lama
	api.Get("/students/class/:classId", authJWT, authMiddleware.TeacherOnly("class roster"), cc.ListRoster)
}
