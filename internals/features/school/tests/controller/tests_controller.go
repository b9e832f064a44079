package controller

import (
	"errors"
	"log"
	"mime/multipart"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	database "smarttester_backend/internals/databases"
	classRepo "smarttester_backend/internals/features/school/classes/repository"
	studentRepo "smarttester_backend/internals/features/school/students/repository"
	submissionRepo "smarttester_backend/internals/features/school/submissions/repository"
	"smarttester_backend/internals/features/school/tests/dto"
	"smarttester_backend/internals/features/school/tests/repository"
	"smarttester_backend/internals/features/school/tests/service"
	helper "smarttester_backend/internals/helpers"
	helperAuth "smarttester_backend/internals/helpers/auth"
)

type TestController struct {
	Service     *service.TestService
	Repo        repository.TestRepository
	Classes     classRepo.ClassRepository
	Students    studentRepo.StudentRepository
	Submissions submissionRepo.SubmissionRepository
	Validator   *validator.Validate
}

func NewTestController(
	svc *service.TestService,
	classes classRepo.ClassRepository,
	students studentRepo.StudentRepository,
	submissions submissionRepo.SubmissionRepository,
) *TestController {
	return &TestController{
		Service:     svc,
		Repo:        svc.Repo,
		Classes:     classes,
		Students:    students,
		Submissions: submissions,
		Validator:   svc.Validator,
	}
}

// writeError memetakan error service/repository ke status HTTP.
func writeError(c *fiber.Ctx, err error, notFoundMsg string) error {
	var fe *fiber.Error
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &fe):
		return helper.JsonError(c, fe.Code, fe.Message)
	case errors.As(err, &ve), helper.IsValidationError(err):
		return helper.JsonValidationError(c, err)
	case errors.Is(err, database.ErrNotFound), errors.Is(err, service.ErrNotOwner):
		return helper.JsonError(c, fiber.StatusNotFound, notFoundMsg)
	default:
		return helper.JsonInternal(c, "Internal server error", err)
	}
}

var imageField = regexp.MustCompile(`^images\[(\d+)\]$`)

// parseUpsertRequest menerima multipart/form-data atau JSON.
func parseUpsertRequest(c *fiber.Ctx) (*dto.UpsertTestRequest, map[int]*multipart.FileHeader, error) {
	req := &dto.UpsertTestRequest{}
	ct := strings.ToLower(c.Get(fiber.HeaderContentType))

	if !strings.HasPrefix(ct, fiber.MIMEMultipartForm) {
		if err := c.BodyParser(req); err != nil {
			return nil, nil, helper.BadInput("Invalid request body: " + err.Error())
		}
		return req, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, helper.BadInput("Invalid multipart form")
	}
	first := func(k string) string {
		if v := form.Value[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	req.Title = first("title")
	req.ClassID = first("class_id")
	req.ClassIDAlt = first("classId")

	if req.AttemptsLimit, err = dto.ParseAttemptsField(first("attempts_limit")); err != nil {
		return nil, nil, helper.NewValidationError(err, helper.FieldError{Field: "attempts_limit", Error: err.Error()})
	}
	if req.Questions, err = dto.ParseQuestionsField(first("questions")); err != nil {
		return nil, nil, helper.NewValidationError(err, helper.FieldError{Field: "questions", Error: "invalid JSON"})
	}

	images := make(map[int]*multipart.FileHeader)
	for field, files := range form.File {
		m := imageField.FindStringSubmatch(field)
		if m == nil || len(files) == 0 {
			continue
		}
		idx, _ := strconv.Atoi(m[1])
		images[idx] = files[0]
	}
	return req, images, nil
}

// POST /api/tests
func (tc *TestController) CreateTest(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	req, images, err := parseUpsertRequest(c)
	if err != nil {
		return helper.JsonValidationError(c, err)
	}

	test, err := tc.Service.Create(c.Context(), id.UserID, req, images)
	if err != nil {
		return writeError(c, err, "Test not found")
	}
	return helper.JsonCreated(c, dto.FromModel(test, tc.className(c, test.TestClassID), true))
}

// PUT /api/tests/edit/:testId
func (tc *TestController) UpdateTest(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	testID, err := helper.ParseUUIDParam(c, "testId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	req, images, err := parseUpsertRequest(c)
	if err != nil {
		return helper.JsonValidationError(c, err)
	}

	test, err := tc.Service.Replace(c.Context(), id.UserID, testID, req, images)
	if err != nil {
		return writeError(c, err, "Test not found")
	}
	return helper.JsonOK(c, dto.FromModel(test, tc.className(c, test.TestClassID), true))
}

// DELETE /api/tests/:testId
func (tc *TestController) DeleteTest(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	testID, err := helper.ParseUUIDParam(c, "testId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := tc.Service.Delete(c.Context(), id.UserID, testID); err != nil {
		return writeError(c, err, "Test not found")
	}
	return helper.JsonDeleted(c, "Test deleted", testID)
}

// GET /api/tests/view/:testId
func (tc *TestController) ViewTest(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	testID, err := helper.ParseUUIDParam(c, "testId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	test, err := tc.Service.FindOwned(c.Context(), id.UserID, testID, true)
	if err != nil {
		return writeError(c, err, "Test not found")
	}
	return helper.JsonOK(c, dto.FromModel(test, tc.className(c, test.TestClassID), true))
}

// GET /api/tests/teacher
func (tc *TestController) ListTeacherTests(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := tc.Repo.ListTestsByTeacher(c.Context(), id.UserID)
	if err != nil {
		return helper.JsonInternal(c, "Failed to load tests", err)
	}
	return helper.JsonList(c, dto.FromSummaries(rows))
}

// GET /api/tests/questions/:questionId
func (tc *TestController) GetQuestion(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	questionID, err := helper.ParseUUIDParam(c, "questionId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	q, err := tc.Repo.FindQuestionByID(c.Context(), questionID)
	if err != nil {
		return writeError(c, err, "Question not found")
	}
	if _, err := tc.Service.FindOwned(c.Context(), id.UserID, q.QuestionTestID, false); err != nil {
		return writeError(c, err, "Question not found")
	}
	return helper.JsonOK(c, dto.FromQuestionModel(*q, true))
}

// className best-effort; kegagalan lookup tidak menggagalkan response.
func (tc *TestController) className(c *fiber.Ctx, id uuid.UUID) string {
	if tc.Classes == nil {
		return ""
	}
	cls, err := tc.Classes.FindClassByID(c.Context(), id)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			log.Printf("[WARN] class lookup %s: %v", id, err)
		}
		return ""
	}
	return cls.ClassName
}
