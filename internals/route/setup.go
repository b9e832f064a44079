// file: internals/route/setup.go
package routes

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	classController "smarttester_backend/internals/features/school/classes/controller"
	classRoute "smarttester_backend/internals/features/school/classes/route"
	studentController "smarttester_backend/internals/features/school/students/controller"
	studentRoute "smarttester_backend/internals/features/school/students/route"
	submissionController "smarttester_backend/internals/features/school/submissions/controller"
	submissionRoute "smarttester_backend/internals/features/school/submissions/route"
	testController "smarttester_backend/internals/features/school/tests/controller"
	testRoute "smarttester_backend/internals/features/school/tests/route"
	testService "smarttester_backend/internals/features/school/tests/service"
	authController "smarttester_backend/internals/features/users/auth/controller"
	authRoute "smarttester_backend/internals/features/users/auth/route"
	authService "smarttester_backend/internals/features/users/auth/service"
	userController "smarttester_backend/internals/features/users/user/controller"
	userRoute "smarttester_backend/internals/features/users/user/route"
	helper "smarttester_backend/internals/helpers"
	authMiddleware "smarttester_backend/internals/middlewares/auth"
)

type Options struct {
	JWTSecret string
	JWTTTL    time.Duration
	UploadDir string
	// RateLimit=false untuk test (limiter per-IP bikin app.Test flaky)
	RateLimit bool
}

func SetupRoutes(app *fiber.App, repos Repositories, opts Options) {
	v := validator.New()
	authJWT := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{Secret: opts.JWTSecret})
	api := app.Group("/api")

	log.Println("[INFO] Setting up AuthRoutes...")
	authSvc := authService.NewAuthService(repos.Users, repos.Students, repos.Classes, opts.JWTSecret, opts.JWTTTL)
	authRoute.AuthRoutes(api, authController.NewAuthController(authSvc, v), authJWT, opts.RateLimit)

	userRoute.UserRoutes(api, userController.NewUserController(repos.Directory), authJWT)

	log.Println("[INFO] Setting up ClassRoutes & StudentRoutes...")
	classRoute.ClassRoutes(api, classController.NewClassController(repos.Classes, repos.Students, v), authJWT)
	studentRoute.StudentRoutes(api, studentController.NewStudentController(repos.Students, repos.Users, repos.Classes, v), authJWT)

	log.Println("[INFO] Setting up TestRoutes & SubmissionRoutes...")
	testSvc := testService.NewTestService(repos.Tests, repos.Classes, helper.NewImageStore(opts.UploadDir), v)
	tc := testController.NewTestController(testSvc, repos.Classes, repos.Students, repos.Submissions)
	testRoute.TestRoutes(api, tc, authJWT)
	submissionRoute.SubmissionRoutes(api, submissionController.NewSubmissionController(
		repos.Submissions, repos.Tests, repos.Students, repos.Classes, v,
	), authJWT)

	// harus paling akhir: /tests/:testId menangkap semua path satu segmen
	testRoute.StudentTestAliasRoutes(api, tc, authJWT)
}
