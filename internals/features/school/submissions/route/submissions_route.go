// file: internals/features/school/submissions/route/submissions_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"smarttester_backend/internals/constants"
	"smarttester_backend/internals/features/school/submissions/controller"
	authMiddleware "smarttester_backend/internals/middlewares/auth"
)

func SubmissionRoutes(api fiber.Router, sc *controller.SubmissionController, authJWT fiber.Handler) {
	teacher := authMiddleware.TeacherOnly("results")
	student := authMiddleware.StudentOnly("results")
	parent := authMiddleware.ParentOnly("results")
	anyRole := authMiddleware.OnlyRoles("Access denied", constants.AllRoles...)

	// /api/tests dipakai bersama TestRoutes; auth dipasang per route.
	tests := api.Group("/tests")
	tests.Post("/:id/submit", authJWT, authMiddleware.StudentOnly("submit test"), sc.SubmitTest)
	tests.Get("/submission/:submissionId", authJWT, anyRole, sc.GetSubmission)
	tests.Get("/results/:student_id", authJWT, teacher, sc.ListStudentResults)
	tests.Get("/test-results/student", authJWT, student, sc.ListMyResults)

	results := api.Group("/results", authJWT)
	results.Get("/student", student, sc.ListMyResults)
	results.Get("/class/:classId", teacher, sc.ListClassResults)
	results.Get("/parent", parent, sc.ListParentResults)

	api.Get("/test-assignments/results", authJWT, student, sc.ListMyResults)
}
