package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"smarttester_backend/internals/databases/dbtest"
	"smarttester_backend/internals/features/school/submissions/model"
)

func quoted(id uuid.UUID) string { return "'" + id.String() + "'" }

func TestListSubmissionViews_SQL(t *testing.T) {
	db, rec := dbtest.Open(t)
	a, b := uuid.New(), uuid.New()
	testID, classID, teacherID := uuid.New(), uuid.New(), uuid.New()

	_, err := NewSubmissionRepository(db).ListSubmissionViews(context.Background(), model.SubmissionFilter{
		StudentIDs:    []uuid.UUID{a, b},
		TestIDs:       []uuid.UUID{testID},
		ClassID:       &classID,
		TestTeacherID: &teacherID,
	})
	// Scan butuh koneksi; SQL tetap tercatat
	require.ErrorIs(t, err, gorm.ErrDryRunModeUnsupported)

	stmt := rec.MustFind(t, "FROM submissions AS sb")
	assert.Contains(t, stmt, "JOIN tests t ON t.test_id = sb.submission_test_id")
	assert.Contains(t, stmt, "JOIN students s ON s.student_id = sb.submission_student_id")
	assert.Contains(t, stmt, "JOIN users u ON u.id = s.student_user_id")
	assert.Contains(t, stmt, `sb.submission_student_id = ANY('{"`+a.String()+`","`+b.String()+`"}'::uuid[])`)
	assert.Contains(t, stmt, `sb.submission_test_id = ANY('{"`+testID.String()+`"}'::uuid[])`)
	assert.Contains(t, stmt, "s.student_class_id = "+quoted(classID))
	assert.Contains(t, stmt, "t.test_teacher_id = "+quoted(teacherID))
	assert.Contains(t, stmt, "ORDER BY sb.submission_submitted_at DESC")
}

func TestListSubmissionViews_EmptyIDListsShortCircuit(t *testing.T) {
	db, rec := dbtest.Open(t)
	repo := NewSubmissionRepository(db)

	out, err := repo.ListSubmissionViews(context.Background(), model.SubmissionFilter{StudentIDs: []uuid.UUID{}})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	out, err = repo.ListSubmissionViews(context.Background(), model.SubmissionFilter{TestIDs: []uuid.UUID{}})
	require.NoError(t, err)
	assert.Empty(t, out)

	assert.Empty(t, rec.Statements(), "no query for an empty id list")
}

func TestListSubmissionViews_NoFilter(t *testing.T) {
	db, rec := dbtest.Open(t)

	_, err := NewSubmissionRepository(db).ListSubmissionViews(context.Background(), model.SubmissionFilter{})
	require.ErrorIs(t, err, gorm.ErrDryRunModeUnsupported)

	stmt := rec.MustFind(t, "FROM submissions AS sb")
	assert.NotContains(t, stmt, "WHERE")
}

func TestSaveSubmission_UnlimitedInsertsNewRow(t *testing.T) {
	db, rec := dbtest.Open(t)
	studentID, testID, qID := uuid.New(), uuid.New(), uuid.New()

	sub := &model.SubmissionModel{
		SubmissionStudentID:          studentID,
		SubmissionTestID:             testID,
		SubmissionAnswers:            datatypes.JSON(`{}`),
		SubmissionTotalPossibleScore: 1,
		SubmissionGrading: datatypes.NewJSONSlice([]model.QuestionGrade{{
			QuestionID:   qID,
			QuestionText: "two plus two",
			Reason:       "unanswered",
		}}),
	}
	require.NoError(t, NewSubmissionRepository(db).SaveSubmission(context.Background(), sub, 0))
	assert.Equal(t, 1, sub.SubmissionAttemptNumber)
	assert.NotEqual(t, uuid.Nil, sub.SubmissionID)

	count := rec.MustFind(t, "count(*)", `FROM "submissions"`)
	assert.Contains(t, count, "submission_student_id = "+quoted(studentID)+" AND submission_test_id = "+quoted(testID))

	ins := rec.MustFind(t, `INSERT INTO "submissions"`)
	assert.Contains(t, ins, `"submission_attempt_number"`)
	assert.Contains(t, ins, `"submission_grading"`)
	assert.Contains(t, ins, `"question_text":"two plus two"`)
	assert.Contains(t, ins, quoted(sub.SubmissionID))
	assert.NotContains(t, ins, "FOR UPDATE", "unlimited attempts never lock an existing row")
}
