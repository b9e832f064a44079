package memdb

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "smarttester_backend/internals/databases"
	classModel "smarttester_backend/internals/features/school/classes/model"
	studentModel "smarttester_backend/internals/features/school/students/model"
	submissionModel "smarttester_backend/internals/features/school/submissions/model"
	testModel "smarttester_backend/internals/features/school/tests/model"
	authRepo "smarttester_backend/internals/features/users/auth/repository"
	userModel "smarttester_backend/internals/features/users/user/model"
)

type fixture struct {
	db      *DB
	teacher *userModel.UserModel
	class   *classModel.ClassModel
	student *studentModel.StudentModel
	test    *testModel.TestModel
}

func newFixture(t *testing.T, attempts int) fixture {
	t.Helper()
	ctx := context.Background()
	db := Open()

	teacher := &userModel.UserModel{UserName: "Bu Sari", Email: "sari@example.com", Role: "teacher"}
	require.NoError(t, db.CreateUser(ctx, teacher, authRepo.RegisterExtras{}))

	class := &classModel.ClassModel{ClassName: "10A", ClassTeacherID: &teacher.ID}
	require.NoError(t, db.CreateClass(ctx, class))

	st := &studentModel.StudentModel{StudentClassID: class.ClassID}
	u := &userModel.UserModel{UserName: "Andi", Email: "andi@example.com", Role: "student"}
	require.NoError(t, db.CreateUser(ctx, u, authRepo.RegisterExtras{Student: st}))

	test := &testModel.TestModel{
		TestTitle:         "Algebra Quiz",
		TestClassID:       class.ClassID,
		TestTeacherID:     teacher.ID,
		TestAttemptsLimit: attempts,
		Questions: []testModel.QuestionModel{{
			QuestionText: "2 + 2 = ?",
			QuestionType: "single",
			Options: []testModel.OptionModel{
				{OptionText: "3"},
				{OptionText: "4", OptionIsCorrect: true, OptionPosition: 1},
			},
		}},
	}
	require.NoError(t, db.CreateTest(ctx, test))
	return fixture{db: db, teacher: teacher, class: class, student: st, test: test}
}

func TestCreateUser_Constraints(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	dup := &userModel.UserModel{UserName: "x", Email: "sari@example.com", Role: "teacher"}
	assert.ErrorIs(t, f.db.CreateUser(ctx, dup, authRepo.RegisterExtras{}), database.ErrEmailTaken)

	orphan := &userModel.UserModel{UserName: "y", Email: "y@example.com", Role: "student"}
	err := f.db.CreateUser(ctx, orphan, authRepo.RegisterExtras{Student: &studentModel.StudentModel{StudentClassID: uuid.New()}})
	assert.ErrorIs(t, err, database.ErrInvalidReference)
	_, err = f.db.FindUserByEmail(ctx, "y@example.com")
	assert.ErrorIs(t, err, database.ErrNotFound, "failed register leaves no user row")
}

func TestEnrollStudent_Twice(t *testing.T) {
	f := newFixture(t, 1)
	err := f.db.EnrollStudent(context.Background(), &studentModel.StudentModel{
		StudentUserID:  f.student.StudentUserID,
		StudentClassID: f.class.ClassID,
	})
	assert.ErrorIs(t, err, database.ErrAlreadyEnrolled)
}

func TestCreateTest_DefaultAssignmentAndCascade(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	ok, err := f.db.IsAssigned(ctx, f.test.TestID, &f.class.ClassID, f.student.StudentID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := f.db.FindTestByID(ctx, f.test.TestID, true)
	require.NoError(t, err)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, []string{"4"}, got.Questions[0].CorrectTexts())

	qID := got.Questions[0].QuestionID
	require.NoError(t, f.db.DeleteTest(ctx, f.test.TestID))
	_, err = f.db.FindQuestionByID(ctx, qID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	rows, err := f.db.ListAssignmentsByTest(ctx, f.test.TestID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSaveSubmission_Policy(t *testing.T) {
	ctx := context.Background()

	t.Run("limit one upserts", func(t *testing.T) {
		f := newFixture(t, 1)
		for score := 0; score < 2; score++ {
			sub := &submissionModel.SubmissionModel{SubmissionStudentID: f.student.StudentID, SubmissionTestID: f.test.TestID, SubmissionScore: score}
			require.NoError(t, f.db.SaveSubmission(ctx, sub, 1))
		}
		n, err := f.db.CountAttempts(ctx, f.student.StudentID, f.test.TestID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("limit two then exhausted", func(t *testing.T) {
		f := newFixture(t, 2)
		for i := 0; i < 2; i++ {
			sub := &submissionModel.SubmissionModel{SubmissionStudentID: f.student.StudentID, SubmissionTestID: f.test.TestID}
			require.NoError(t, f.db.SaveSubmission(ctx, sub, 2))
			assert.Equal(t, i+1, sub.SubmissionAttemptNumber)
		}
		sub := &submissionModel.SubmissionModel{SubmissionStudentID: f.student.StudentID, SubmissionTestID: f.test.TestID}
		assert.ErrorIs(t, f.db.SaveSubmission(ctx, sub, 2), database.ErrAttemptsExhausted)
	})

	t.Run("filter semantics", func(t *testing.T) {
		f := newFixture(t, 0)
		sub := &submissionModel.SubmissionModel{SubmissionStudentID: f.student.StudentID, SubmissionTestID: f.test.TestID}
		require.NoError(t, f.db.SaveSubmission(ctx, sub, 0))

		all, err := f.db.ListSubmissionViews(ctx, submissionModel.SubmissionFilter{})
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Algebra Quiz", all[0].TestTitle)
		assert.Equal(t, "Andi", all[0].StudentName)

		none, err := f.db.ListSubmissionViews(ctx, submissionModel.SubmissionFilter{StudentIDs: []uuid.UUID{}})
		require.NoError(t, err)
		assert.Empty(t, none)

		other := uuid.New()
		none, err = f.db.ListSubmissionViews(ctx, submissionModel.SubmissionFilter{TestTeacherID: &other})
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
