package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"smarttester_backend/internals/constants"
	database "smarttester_backend/internals/databases"
	classRepo "smarttester_backend/internals/features/school/classes/repository"
	studentModel "smarttester_backend/internals/features/school/students/model"
	studentRepo "smarttester_backend/internals/features/school/students/repository"
	"smarttester_backend/internals/features/school/submissions/dto"
	"smarttester_backend/internals/features/school/submissions/model"
	"smarttester_backend/internals/features/school/submissions/repository"
	"smarttester_backend/internals/features/school/submissions/service"
	testDTO "smarttester_backend/internals/features/school/tests/dto"
	testRepo "smarttester_backend/internals/features/school/tests/repository"
	helper "smarttester_backend/internals/helpers"
	helperAuth "smarttester_backend/internals/helpers/auth"
)

type SubmissionController struct {
	Service   *service.SubmissionService
	Repo      repository.SubmissionRepository
	Tests     testRepo.TestRepository
	Students  studentRepo.StudentRepository
	Classes   classRepo.ClassRepository
	Validator *validator.Validate
}

func NewSubmissionController(
	subs repository.SubmissionRepository,
	tests testRepo.TestRepository,
	students studentRepo.StudentRepository,
	classes classRepo.ClassRepository,
	v *validator.Validate,
) *SubmissionController {
	return &SubmissionController{
		Service:   service.NewSubmissionService(tests, subs),
		Repo:      subs,
		Tests:     tests,
		Students:  students,
		Classes:   classes,
		Validator: v,
	}
}

func writeError(c *fiber.Ctx, err error, notFoundMsg string) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return helper.JsonError(c, fe.Code, fe.Message)
	case helper.IsValidationError(err):
		return helper.JsonValidationError(c, err)
	case errors.Is(err, service.ErrNotAssigned):
		return helper.JsonError(c, fiber.StatusForbidden, "This test is not assigned to you")
	case errors.Is(err, service.ErrNoQuestions):
		return helper.JsonError(c, fiber.StatusNotFound, "Test has no questions")
	case errors.Is(err, database.ErrAttemptsExhausted):
		return helper.JsonError(c, fiber.StatusConflict, "Attempts limit reached for this test")
	case errors.Is(err, database.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, notFoundMsg)
	default:
		return helper.JsonInternal(c, "Internal server error", err)
	}
}

func (sc *SubmissionController) currentStudent(c *fiber.Ctx) (*studentModel.StudentModel, error) {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return nil, err
	}
	st, err := sc.Students.FindStudentByUserID(c.Context(), id.UserID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Student is not enrolled in any class")
	}
	return st, err
}

// POST /api/tests/:id/submit
func (sc *SubmissionController) SubmitTest(c *fiber.Ctx) error {
	st, err := sc.currentStudent(c)
	if err != nil {
		return writeError(c, err, "Student not found")
	}
	testID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.SubmitTestRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := sc.Service.Submit(c.Context(), st, testID, req.Answers)
	if err != nil {
		return writeError(c, err, "Test not found")
	}

	return helper.JsonCreated(c, dto.SubmitTestResponse{
		Submission:         dto.FromModel(res.Submission),
		Score:              res.Grade.Score,
		Total:              res.Grade.Total,
		TotalPossibleScore: res.Grade.Total,
		Percentage:         res.Grade.Percentage,
		Questions:          res.Grade.Questions,
	})
}

// canViewSubmission: siswa pemilik, guru pemilik test, atau parent yang terhubung.
func (sc *SubmissionController) canViewSubmission(c *fiber.Ctx, id helperAuth.Identity, sub *model.SubmissionModel, testTeacherID uuid.UUID) (bool, error) {
	switch id.Role {
	case constants.RoleStudent:
		st, err := sc.Students.FindStudentByUserID(c.Context(), id.UserID)
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return st.StudentID == sub.SubmissionStudentID, nil
	case constants.RoleTeacher:
		return testTeacherID == id.UserID, nil
	case constants.RoleParent:
		return sc.Students.IsParentOf(c.Context(), id.UserID, sub.SubmissionStudentID)
	default:
		return false, nil
	}
}

// GET /api/tests/submission/:submissionId
func (sc *SubmissionController) GetSubmission(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	subID, err := helper.ParseUUIDParam(c, "submissionId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	sub, err := sc.Repo.FindSubmissionByID(c.Context(), subID)
	if err != nil {
		return writeError(c, err, "Submission not found")
	}
	test, err := sc.Tests.FindTestByID(c.Context(), sub.SubmissionTestID, true)
	if err != nil {
		return writeError(c, err, "Submission not found")
	}
	ok, err := sc.canViewSubmission(c, id, sub, test.TestTeacherID)
	if err != nil {
		return helper.JsonInternal(c, "Failed to check access", err)
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Submission not found")
	}

	out := dto.SubmissionDetailResponse{
		SubmissionResponse: dto.FromModel(sub),
		Questions:          testDTO.FromModel(test, "", true).Questions,
		Grading:            service.GradingOf(sub, test.Questions),
	}
	out.Title = test.TestTitle
	out.TestTitle = test.TestTitle
	return helper.JsonOK(c, out)
}
