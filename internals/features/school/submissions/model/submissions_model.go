package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SubmissionModel: satu attempt siswa atas satu test.
// Answers disimpan apa adanya: {questionId: "teks" | ["teks", ...]}.
type SubmissionModel struct {
	SubmissionID                 uuid.UUID      `gorm:"column:submission_id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SubmissionStudentID          uuid.UUID      `gorm:"column:submission_student_id;type:uuid;not null;index:idx_submissions_student_test,priority:1" json:"student_id"`
	SubmissionTestID             uuid.UUID      `gorm:"column:submission_test_id;type:uuid;not null;index:idx_submissions_student_test,priority:2" json:"test_id"`
	SubmissionAnswers            datatypes.JSON `gorm:"column:submission_answers;type:jsonb;not null" json:"answers"`
	SubmissionScore              int            `gorm:"column:submission_score;not null" json:"score"`
	SubmissionTotalPossibleScore int            `gorm:"column:submission_total_possible_score;not null" json:"total_possible_score"`
	SubmissionAttemptNumber      int            `gorm:"column:submission_attempt_number;not null" json:"attempt_number"`
	SubmissionSubmittedAt        time.Time      `gorm:"column:submission_submitted_at;not null" json:"submitted_at"`

	// snapshot penilaian saat submit; soal bisa di-edit (id baru) setelahnya
	SubmissionGrading datatypes.JSONSlice[QuestionGrade] `gorm:"column:submission_grading;type:jsonb;not null;default:'[]'" json:"grading"`
}

// QuestionGrade: hasil penilaian satu soal.
type QuestionGrade struct {
	QuestionID     uuid.UUID `json:"question_id"`
	QuestionText   string    `json:"question_text"`
	Correct        bool      `json:"correct"`
	Reason         string    `json:"reason"`
	Submitted      []string  `json:"submitted"`
	CorrectAnswers []string  `json:"correct_answers"`
}

func (SubmissionModel) TableName() string { return "submissions" }

// SubmissionView: submission + judul test + nama siswa (untuk laporan).
type SubmissionView struct {
	SubmissionModel
	TestTitle      string    `gorm:"column:test_title" json:"test_title"`
	StudentName    string    `gorm:"column:student_name" json:"student_name"`
	StudentClassID uuid.UUID `gorm:"column:student_class_id" json:"student_class_id"`
}

// SubmissionFilter: semua field opsional, digabung dengan AND.
type SubmissionFilter struct {
	StudentIDs    []uuid.UUID
	TestIDs       []uuid.UUID
	ClassID       *uuid.UUID
	TestTeacherID *uuid.UUID
}
