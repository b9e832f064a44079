package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"smarttester_backend/internals/features/school/submissions/model"
	"smarttester_backend/internals/features/school/submissions/service"
	testDTO "smarttester_backend/internals/features/school/tests/dto"
)

type SubmitTestRequest struct {
	Answers json.RawMessage `json:"answers"`
}

type SubmissionResponse struct {
	ID                 uuid.UUID       `json:"id"`
	StudentID          uuid.UUID       `json:"student_id"`
	TestID             uuid.UUID       `json:"test_id"`
	Answers            json.RawMessage `json:"answers"`
	Score              int             `json:"score"`
	TotalPossibleScore int             `json:"total_possible_score"`
	Percentage         float64         `json:"percentage"`
	AttemptNumber      int             `json:"attempt_number"`
	SubmittedAt        time.Time       `json:"submitted_at"`

	// diisi pada laporan
	Title       string `json:"title,omitempty"`
	TestTitle   string `json:"test_title,omitempty"`
	StudentName string `json:"student_name,omitempty"`
}

func FromModel(m *model.SubmissionModel) SubmissionResponse {
	answers := json.RawMessage(m.SubmissionAnswers)
	if len(answers) == 0 {
		answers = json.RawMessage("{}")
	}
	return SubmissionResponse{
		ID:                 m.SubmissionID,
		StudentID:          m.SubmissionStudentID,
		TestID:             m.SubmissionTestID,
		Answers:            answers,
		Score:              m.SubmissionScore,
		TotalPossibleScore: m.SubmissionTotalPossibleScore,
		Percentage:         service.Percentage(m.SubmissionScore, m.SubmissionTotalPossibleScore),
		AttemptNumber:      m.SubmissionAttemptNumber,
		SubmittedAt:        m.SubmissionSubmittedAt,
	}
}

func FromView(v *model.SubmissionView) SubmissionResponse {
	out := FromModel(&v.SubmissionModel)
	out.Title = v.TestTitle
	out.TestTitle = v.TestTitle
	out.StudentName = v.StudentName
	return out
}

func FromViews(rows []model.SubmissionView) []SubmissionResponse {
	out := make([]SubmissionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromView(&rows[i]))
	}
	return out
}

type SubmitTestResponse struct {
	Submission         SubmissionResponse      `json:"submission"`
	Score              int                     `json:"score"`
	Total              int                     `json:"total"`
	TotalPossibleScore int                     `json:"totalPossibleScore"`
	Percentage         float64                 `json:"percentage"`
	Questions          []service.QuestionGrade `json:"questions"`
}

// SubmissionDetailResponse: submission + soal (dengan kunci) + penilaian per soal.
type SubmissionDetailResponse struct {
	SubmissionResponse
	Questions []testDTO.QuestionResponse `json:"questions"`
	Grading   []service.QuestionGrade    `json:"grading"`
}

// ClassResultGroup: satu pasangan (siswa, test) pada laporan kelas.
type ClassResultGroup struct {
	StudentID   uuid.UUID            `json:"student_id"`
	StudentName string               `json:"student_name"`
	TestID      uuid.UUID            `json:"test_id"`
	TestTitle   string               `json:"test_title"`
	Submissions []SubmissionResponse `json:"submissions"`
}

// GroupByStudentTest mempertahankan urutan kemunculan pertama tiap pasangan.
func GroupByStudentTest(rows []model.SubmissionView) []ClassResultGroup {
	type key struct{ student, test uuid.UUID }
	idx := make(map[key]int)
	out := make([]ClassResultGroup, 0)
	for i := range rows {
		v := &rows[i]
		k := key{v.SubmissionStudentID, v.SubmissionTestID}
		pos, ok := idx[k]
		if !ok {
			pos = len(out)
			idx[k] = pos
			out = append(out, ClassResultGroup{
				StudentID:   v.SubmissionStudentID,
				StudentName: v.StudentName,
				TestID:      v.SubmissionTestID,
				TestTitle:   v.TestTitle,
				Submissions: []SubmissionResponse{},
			})
		}
		out[pos].Submissions = append(out[pos].Submissions, FromView(v))
	}
	return out
}
