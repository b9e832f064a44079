package route

import (
	"github.com/gofiber/fiber/v2"

	"smarttester_backend/internals/features/school/students/controller"
	authMiddleware "smarttester_backend/internals/middlewares/auth"
)

// auth per-route: prefix /students juga dipakai ClassRoutes
func StudentRoutes(api fiber.Router, sc *controller.StudentController, authJWT fiber.Handler) {
	teacher := authMiddleware.TeacherOnly("students")

	api.Get("/auth/students", authJWT, teacher, sc.ListStudents)

	students := api.Group("/students")
	students.Post("/", authJWT, teacher, sc.EnrollStudent)
	students.Get("/", authJWT, teacher, sc.ListStudents)
	students.Get("/children", authJWT, authMiddleware.ParentOnly("children"), sc.ListMyChildren)
}
