// file: internals/features/school/tests/route/tests_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"smarttester_backend/internals/features/school/tests/controller"
	authMiddleware "smarttester_backend/internals/middlewares/auth"
)

// TestRoutes: authoring (guru) + delivery (siswa) di /api/tests dan /api/test-assignments.
func TestRoutes(api fiber.Router, tc *controller.TestController, authJWT fiber.Handler) {
	teacher := authMiddleware.TeacherOnly("tests")
	student := authMiddleware.StudentOnly("tests")

	// auth per route: prefix /api/tests juga dipakai SubmissionRoutes.
	tests := api.Group("/tests")

	// 🎓 Guru
	tests.Post("/", authJWT, teacher, tc.CreateTest)
	tests.Get("/", authJWT, teacher, tc.ListTeacherTests)
	tests.Get("/teacher", authJWT, teacher, tc.ListTeacherTests)
	tests.Get("/view/:testId", authJWT, teacher, tc.ViewTest)
	tests.Put("/edit/:testId", authJWT, teacher, tc.UpdateTest)
	tests.Get("/questions/:questionId", authJWT, teacher, tc.GetQuestion)
	tests.Delete("/:testId", authJWT, teacher, tc.DeleteTest)

	// 📝 Siswa
	tests.Get("/student", authJWT, student, tc.ListAvailableTests)
	tests.Get("/student/:testId", authJWT, student, tc.GetStudentTest)

	assignments := api.Group("/test-assignments")
	assignments.Get("/available", authJWT, student, tc.ListAvailableTests)
	assignments.Post("/", authJWT, teacher, tc.CreateAssignment)
	assignments.Get("/test/:testId", authJWT, teacher, tc.ListAssignments)
	assignments.Delete("/:id", authJWT, teacher, tc.DeleteAssignment)
}

// StudentTestAliasRoutes: GET /api/tests/:testId (path lama klien), didaftarkan paling akhir.
func StudentTestAliasRoutes(api fiber.Router, tc *controller.TestController, authJWT fiber.Handler) {
	api.Get("/tests/:testId", authJWT, authMiddleware.StudentOnly("tests"), tc.GetStudentTest)
}
