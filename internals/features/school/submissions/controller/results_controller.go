package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	database "smarttester_backend/internals/databases"
	studentModel "smarttester_backend/internals/features/school/students/model"
	"smarttester_backend/internals/features/school/submissions/dto"
	"smarttester_backend/internals/features/school/submissions/model"
	helper "smarttester_backend/internals/helpers"
	helperAuth "smarttester_backend/internals/helpers/auth"
)

// GET /api/tests/results/:student_id
// Param boleh students.id atau users.id milik siswa.
func (sc *SubmissionController) ListStudentResults(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	rawID, err := helper.ParseUUIDParam(c, "student_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	st, err := sc.lookupStudent(c, rawID)
	if err != nil {
		return writeError(c, err, "Student not found")
	}

	teacherID := id.UserID
	rows, err := sc.Repo.ListSubmissionViews(c.Context(), model.SubmissionFilter{
		StudentIDs:    []uuid.UUID{st.StudentID},
		TestTeacherID: &teacherID,
	})
	if err != nil {
		return helper.JsonInternal(c, "Failed to load results", err)
	}
	return helper.JsonList(c, dto.FromViews(rows))
}

func (sc *SubmissionController) lookupStudent(c *fiber.Ctx, rawID uuid.UUID) (*studentModel.StudentModel, error) {
	st, err := sc.Students.FindStudentByID(c.Context(), rawID)
	if errors.Is(err, database.ErrNotFound) {
		return sc.Students.FindStudentByUserID(c.Context(), rawID)
	}
	return st, err
}

// GET /api/tests/test-results/student
func (sc *SubmissionController) ListMyResults(c *fiber.Ctx) error {
	st, err := sc.currentStudent(c)
	if err != nil {
		return writeError(c, err, "Student not found")
	}
	rows, err := sc.Repo.ListSubmissionViews(c.Context(), model.SubmissionFilter{
		StudentIDs: []uuid.UUID{st.StudentID},
	})
	if err != nil {
		return helper.JsonInternal(c, "Failed to load results", err)
	}
	return helper.JsonList(c, dto.FromViews(rows))
}

// GET /api/results/class/:classId
func (sc *SubmissionController) ListClassResults(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	classID, err := helper.ParseUUIDParam(c, "classId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if _, err := sc.Classes.FindClassByID(c.Context(), classID); err != nil {
		return writeError(c, err, "Class not found")
	}

	teacherID := id.UserID
	rows, err := sc.Repo.ListSubmissionViews(c.Context(), model.SubmissionFilter{
		ClassID:       &classID,
		TestTeacherID: &teacherID,
	})
	if err != nil {
		return helper.JsonInternal(c, "Failed to load results", err)
	}
	return helper.JsonList(c, dto.GroupByStudentTest(rows))
}

// GET /api/results/parent
func (sc *SubmissionController) ListParentResults(c *fiber.Ctx) error {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	children, err := sc.Students.ListChildren(c.Context(), id.UserID)
	if err != nil {
		return helper.JsonInternal(c, "Failed to load children", err)
	}
	if len(children) == 0 {
		return helper.JsonList(c, []dto.SubmissionResponse{})
	}

	ids := make([]uuid.UUID, 0, len(children))
	for _, ch := range children {
		ids = append(ids, ch.StudentID)
	}
	rows, err := sc.Repo.ListSubmissionViews(c.Context(), model.SubmissionFilter{StudentIDs: ids})
	if err != nil {
		return helper.JsonInternal(c, "Failed to load results", err)
	}
	return helper.JsonList(c, dto.FromViews(rows))
}
