package service

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/bytedance/sonic"

	"smarttester_backend/internals/constants"
	submissionModel "smarttester_backend/internals/features/school/submissions/model"
	testModel "smarttester_backend/internals/features/school/tests/model"
)

const (
	ReasonCorrect    = "correct"
	ReasonWrong      = "wrong"
	ReasonUnanswered = "unanswered"
)

// AnswerValue: jawaban satu soal, boleh string tunggal atau array string.
type AnswerValue []string

func (v *AnswerValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = nil
		return nil
	}
	var s string
	if err := sonic.Unmarshal(b, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			*v = nil
		} else {
			*v = AnswerValue{s}
		}
		return nil
	}
	var arr []string
	if err := sonic.Unmarshal(b, &arr); err != nil {
		return errors.New("jawaban harus string atau array string")
	}
	*v = AnswerValue(arr)
	return nil
}

// Answers: questionId → jawaban.
type Answers map[string]AnswerValue

func ParseAnswers(raw []byte) (Answers, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Answers{}, nil
	}
	var a Answers
	if err := sonic.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("answers: %w", err)
	}
	return a, nil
}

type QuestionGrade = submissionModel.QuestionGrade

type Grade struct {
	Score      int             `json:"score"`
	Total      int             `json:"total"`
	Percentage float64         `json:"percentage"`
	Questions  []QuestionGrade `json:"questions"`
}

// GradeAnswers menilai jawaban terhadap opsi benar tiap soal.
//   - single: benar jika tepat satu nilai dan sama dengan teks opsi benar
//   - multiple: benar jika jumlah nilai sama dan semua opsi benar ada di jawaban
func GradeAnswers(questions []testModel.QuestionModel, answers Answers) Grade {
	g := Grade{Total: len(questions), Questions: make([]QuestionGrade, 0, len(questions))}
	for i := range questions {
		q := &questions[i]
		submitted := []string(answers[q.QuestionID.String()])
		qg := QuestionGrade{
			QuestionID:     q.QuestionID,
			QuestionText:   q.QuestionText,
			Submitted:      nonNil(submitted),
			CorrectAnswers: nonNil(q.CorrectTexts()),
		}
		switch {
		case len(submitted) == 0:
			qg.Reason = ReasonUnanswered
		case isCorrect(q.QuestionType, submitted, qg.CorrectAnswers):
			qg.Correct = true
			qg.Reason = ReasonCorrect
			g.Score++
		default:
			qg.Reason = ReasonWrong
		}
		g.Questions = append(g.Questions, qg)
	}
	g.Percentage = Percentage(g.Score, g.Total)
	return g
}

func isCorrect(qType string, submitted, correct []string) bool {
	if len(correct) == 0 {
		return false
	}
	if qType == constants.QuestionTypeSingle {
		return len(submitted) == 1 && len(correct) == 1 && submitted[0] == correct[0]
	}
	if len(submitted) != len(correct) {
		return false
	}
	have := make(map[string]bool, len(submitted))
	for _, s := range submitted {
		have[s] = true
	}
	for _, c := range correct {
		if !have[c] {
			return false
		}
	}
	return true
}

// Percentage dibulatkan 2 desimal; total 0 → 0.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*10000) / 100
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
