package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	studentModel "smarttester_backend/internals/features/school/students/model"
	"smarttester_backend/internals/features/school/submissions/model"
	"smarttester_backend/internals/features/school/submissions/repository"
	testModel "smarttester_backend/internals/features/school/tests/model"
	testRepo "smarttester_backend/internals/features/school/tests/repository"
	helper "smarttester_backend/internals/helpers"
)

var (
	ErrNotAssigned = errors.New("test is not assigned to this student")
	ErrNoQuestions = errors.New("test has no questions")
)

type SubmissionService struct {
	Tests       testRepo.TestRepository
	Submissions repository.SubmissionRepository
}

func NewSubmissionService(tests testRepo.TestRepository, subs repository.SubmissionRepository) *SubmissionService {
	return &SubmissionService{Tests: tests, Submissions: subs}
}

type SubmitResult struct {
	Submission *model.SubmissionModel
	Grade      Grade
}

// Submit menilai jawaban siswa lalu menyimpannya sesuai attempts_limit test.
func (s *SubmissionService) Submit(ctx context.Context, st *studentModel.StudentModel, testID uuid.UUID, rawAnswers []byte) (*SubmitResult, error) {
	test, err := s.Tests.FindTestByID(ctx, testID, true)
	if err != nil {
		return nil, err
	}

	classID := st.StudentClassID
	ok, err := s.Tests.IsAssigned(ctx, testID, &classID, st.StudentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAssigned
	}

	answers, err := ParseAnswers(rawAnswers)
	if err != nil {
		return nil, helper.NewValidationError(err, helper.FieldError{Field: "answers", Error: err.Error()})
	}
	if len(answers) == 0 {
		return nil, helper.NewValidationError(errors.New("answers wajib diisi"),
			helper.FieldError{Field: "answers", Error: "required"})
	}
	if len(test.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	grade := GradeAnswers(test.Questions, answers)
	sub := &model.SubmissionModel{
		SubmissionStudentID:          st.StudentID,
		SubmissionTestID:             testID,
		SubmissionAnswers:            datatypes.JSON(rawAnswers),
		SubmissionScore:              grade.Score,
		SubmissionTotalPossibleScore: grade.Total,
		SubmissionGrading:            datatypes.NewJSONSlice(grade.Questions),
	}
	if err := s.Submissions.SaveSubmission(ctx, sub, test.TestAttemptsLimit); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}

	log.Printf("[INFO] submission %s: student=%s test=%s score=%d/%d attempt=%d",
		sub.SubmissionID, st.StudentID, testID, grade.Score, grade.Total, sub.SubmissionAttemptNumber)
	return &SubmitResult{Submission: sub, Grade: grade}, nil
}

// GradingOf: penilaian tersimpan saat submit. Baris lama tanpa snapshot
// dinilai ulang terhadap soal sekarang.
func GradingOf(sub *model.SubmissionModel, questions []testModel.QuestionModel) []QuestionGrade {
	if len(sub.SubmissionGrading) > 0 {
		return []QuestionGrade(sub.SubmissionGrading)
	}
	answers, err := ParseAnswers(sub.SubmissionAnswers)
	if err != nil {
		answers = Answers{}
	}
	return GradeAnswers(questions, answers).Questions
}
