package controller

import (
	"github.com/gofiber/fiber/v2"

	"smarttester_backend/internals/features/school/tests/dto"
	helper "smarttester_backend/internals/helpers"
	helperAuth "smarttester_backend/internals/helpers/auth"
)

// POST /api/test-assignments
func (tc *TestController) CreateAssignment(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CreateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.ValidateShape(); err != nil {
		return helper.JsonValidationError(c, helper.NewValidationError(err))
	}
	if _, err := tc.Service.FindOwned(c.Context(), id.UserID, req.TestID, false); err != nil {
		return writeError(c, err, "Test not found")
	}

	if req.ClassID != nil {
		if _, err := tc.Classes.FindClassByID(c.Context(), *req.ClassID); err != nil {
			return writeError(c, helper.BadInput("class not found"), "")
		}
	}
	if req.StudentID != nil {
		if _, err := tc.Students.FindStudentByID(c.Context(), *req.StudentID); err != nil {
			return writeError(c, helper.BadInput("student not found"), "")
		}
	}

	a := req.ToModel()
	if err := tc.Repo.CreateAssignment(c.Context(), a); err != nil {
		return writeError(c, err, "Test not found")
	}
	return helper.JsonCreated(c, dto.FromAssignmentModel(a))
}

// GET /api/test-assignments/test/:testId
func (tc *TestController) ListAssignments(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	testID, err := helper.ParseUUIDParam(c, "testId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if _, err := tc.Service.FindOwned(c.Context(), id.UserID, testID, false); err != nil {
		return writeError(c, err, "Test not found")
	}
	rows, err := tc.Repo.ListAssignmentsByTest(c.Context(), testID)
	if err != nil {
		return helper.JsonInternal(c, "Failed to load assignments", err)
	}
	return helper.JsonList(c, dto.FromAssignmentModels(rows))
}

// DELETE /api/test-assignments/:id
func (tc *TestController) DeleteAssignment(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	assignmentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	a, err := tc.Repo.FindAssignmentByID(c.Context(), assignmentID)
	if err != nil {
		return writeError(c, err, "Assignment not found")
	}
	if _, err := tc.Service.FindOwned(c.Context(), id.UserID, a.TestAssignmentTestID, false); err != nil {
		return writeError(c, err, "Assignment not found")
	}
	if err := tc.Repo.DeleteAssignment(c.Context(), assignmentID); err != nil {
		return writeError(c, err, "Assignment not found")
	}
	return helper.JsonDeleted(c, "Assignment deleted", assignmentID)
}
