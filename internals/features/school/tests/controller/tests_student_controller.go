package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	database "smarttester_backend/internals/databases"
	studentModel "smarttester_backend/internals/features/school/students/model"
	submissionModel "smarttester_backend/internals/features/school/submissions/model"
	"smarttester_backend/internals/features/school/tests/dto"
	helper "smarttester_backend/internals/helpers"
	helperAuth "smarttester_backend/internals/helpers/auth"
)

// resolveStudent: baris students milik user login; belum terdaftar → 404.
func (tc *TestController) resolveStudent(c *fiber.Ctx) (*studentModel.StudentModel, error) {
	id, err := helperAuth.GetIdentity(c)
	if err != nil {
		return nil, err
	}
	st, err := tc.Students.FindStudentByUserID(c.Context(), id.UserID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Student is not enrolled in any class")
	}
	return st, err
}

// GET /api/tests/student
func (tc *TestController) ListAvailableTests(c *fiber.Ctx) error {
	st, err := tc.resolveStudent(c)
	if err != nil {
		return writeError(c, err, "Student not found")
	}

	classID := st.StudentClassID
	tests, err := tc.Repo.ListAssignedTests(c.Context(), &classID, st.StudentID)
	if err != nil {
		return helper.JsonInternal(c, "Failed to load tests", err)
	}

	out := make([]dto.AvailableTest, 0, len(tests))
	for _, t := range tests {
		used, err := tc.Submissions.CountAttempts(c.Context(), st.StudentID, t.TestID)
		if err != nil {
			return helper.JsonInternal(c, "Failed to count attempts", err)
		}
		if submissionModel.Exhausted(t.TestAttemptsLimit, used) {
			continue
		}
		out = append(out, dto.AvailableTest{
			ID:            t.TestID,
			Title:         t.TestTitle,
			ClassID:       t.TestClassID,
			ClassName:     tc.className(c, t.TestClassID),
			CreatedAt:     t.TestCreatedAt,
			AttemptsLimit: t.TestAttemptsLimit,
			AttemptsUsed:  used,
			Completed:     used > 0,
		})
	}
	return helper.JsonList(c, out)
}

// GET /api/tests/student/:testId: soal tanpa kunci jawaban.
func (tc *TestController) GetStudentTest(c *fiber.Ctx) error {
	st, err := tc.resolveStudent(c)
	if err != nil {
		return writeError(c, err, "Student not found")
	}
	testID, err := helper.ParseUUIDParam(c, "testId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	classID := st.StudentClassID
	ok, err := tc.Repo.IsAssigned(c.Context(), testID, &classID, st.StudentID)
	if err != nil {
		return helper.JsonInternal(c, "Failed to check assignment", err)
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Test not found or not available")
	}

	test, err := tc.Repo.FindTestByID(c.Context(), testID, true)
	if err != nil {
		return writeError(c, err, "Test not found or not available")
	}
	return helper.JsonOK(c, dto.FromModel(test, tc.className(c, test.TestClassID), false))
}
