// file: internals/features/school/tests/dto/tests_dto.go
package dto

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"smarttester_backend/internals/constants"
	"smarttester_backend/internals/features/school/tests/model"
)

/* =========================================================
   REQUEST
========================================================= */

// OptionInput menerima objek {text, is_correct} atau string biasa (bentuk lama).
type OptionInput struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

func (o *OptionInput) UnmarshalJSON(b []byte) error {
	var s string
	if err := sonic.Unmarshal(b, &s); err == nil {
		o.Text = s
		return nil
	}
	type alias OptionInput
	var a alias
	if err := sonic.Unmarshal(b, &a); err != nil {
		return errors.New("option harus string atau objek {text, is_correct}")
	}
	*o = OptionInput(a)
	return nil
}

type QuestionInput struct {
	QuestionText string        `json:"question_text"`
	Text         string        `json:"text"`
	Type         string        `json:"type" validate:"required,oneof=single multiple"`
	Options      []OptionInput `json:"options" validate:"min=2"`
	Formula      *string       `json:"formula"`
	ImageURL     *string       `json:"image_url"`

	// bentuk lama: options string + kunci jawaban terpisah
	CorrectAnswer  *string  `json:"correct_answer"`
	CorrectAnswers []string `json:"correct_answers"`
}

// UpsertTestRequest dipakai create maupun edit (edit = full replace).
type UpsertTestRequest struct {
	Title         string          `json:"title" validate:"required,max=255"`
	ClassID       string          `json:"class_id"`
	ClassIDAlt    string          `json:"classId"`
	AttemptsLimit *int            `json:"attempts_limit" validate:"omitempty,min=0"`
	Questions     []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

// ParseQuestionsField: field multipart "questions" berisi JSON array.
func ParseQuestionsField(raw string) ([]QuestionInput, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var qs []QuestionInput
	if err := sonic.UnmarshalString(raw, &qs); err != nil {
		return nil, fmt.Errorf("questions: JSON tidak valid: %w", err)
	}
	return qs, nil
}

// ParseAttemptsField: kosong → nil (pakai default).
func ParseAttemptsField(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New("attempts_limit harus bilangan bulat")
	}
	return &n, nil
}

// Normalize merapikan alias dan bentuk lama sebelum validasi.
func (r *UpsertTestRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.ClassID = strings.TrimSpace(r.ClassID)
	if r.ClassID == "" {
		r.ClassID = strings.TrimSpace(r.ClassIDAlt)
	}
	for i := range r.Questions {
		q := &r.Questions[i]
		if strings.TrimSpace(q.QuestionText) == "" {
			q.QuestionText = q.Text
		}
		q.QuestionText = strings.TrimSpace(q.QuestionText)
		q.Type = strings.ToLower(strings.TrimSpace(q.Type))
		q.Formula = trimPtr(q.Formula)
		q.ImageURL = trimPtr(q.ImageURL)

		for j := range q.Options {
			q.Options[j].Text = strings.TrimSpace(q.Options[j].Text)
		}
		applyLegacyAnswers(q)
	}
}

func applyLegacyAnswers(q *QuestionInput) {
	var keys []string
	switch {
	case q.Type == constants.QuestionTypeSingle && q.CorrectAnswer != nil:
		keys = []string{*q.CorrectAnswer}
	case q.Type == constants.QuestionTypeMultiple && len(q.CorrectAnswers) > 0:
		keys = q.CorrectAnswers
	default:
		return
	}
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[strings.TrimSpace(k)] = true
	}
	for j := range q.Options {
		if want[q.Options[j].Text] {
			q.Options[j].IsCorrect = true
		}
	}
}

// ParsedClassID: class_id wajib dan harus UUID.
func (r *UpsertTestRequest) ParsedClassID() (uuid.UUID, error) {
	if r.ClassID == "" {
		return uuid.Nil, errors.New("class_id wajib diisi")
	}
	id, err := uuid.Parse(r.ClassID)
	if err != nil {
		return uuid.Nil, errors.New("class_id tidak valid")
	}
	return id, nil
}

// ValidateShape: aturan domain yang tidak bisa diekspresikan lewat tag validator.
func (r *UpsertTestRequest) ValidateShape() error {
	if _, err := r.ParsedClassID(); err != nil {
		return err
	}
	for i, q := range r.Questions {
		if q.QuestionText == "" {
			return fmt.Errorf("questions[%d]: question_text wajib diisi", i)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("questions[%d]: minimal 2 options", i)
		}
		seen := make(map[string]bool, len(q.Options))
		correct := 0
		for j, o := range q.Options {
			if o.Text == "" {
				return fmt.Errorf("questions[%d].options[%d]: text wajib diisi", i, j)
			}
			if seen[o.Text] {
				return fmt.Errorf("questions[%d]: option %q duplikat", i, o.Text)
			}
			seen[o.Text] = true
			if o.IsCorrect {
				correct++
			}
		}
		switch q.Type {
		case constants.QuestionTypeSingle:
			if correct != 1 {
				return fmt.Errorf("questions[%d]: soal single harus punya tepat 1 jawaban benar", i)
			}
		case constants.QuestionTypeMultiple:
			if correct < 1 {
				return fmt.Errorf("questions[%d]: soal multiple harus punya minimal 1 jawaban benar", i)
			}
		default:
			return fmt.Errorf("questions[%d]: type harus single atau multiple", i)
		}
	}
	return nil
}

// ToModel: request → TestModel (ID soal/opsi diisi repository).
func (r *UpsertTestRequest) ToModel(teacherID uuid.UUID) (*model.TestModel, error) {
	classID, err := r.ParsedClassID()
	if err != nil {
		return nil, err
	}
	limit := constants.DefaultAttemptsLimit
	if r.AttemptsLimit != nil {
		limit = *r.AttemptsLimit
	}

	m := &model.TestModel{
		TestTitle:         r.Title,
		TestClassID:       classID,
		TestTeacherID:     teacherID,
		TestAttemptsLimit: limit,
		Questions:         make([]model.QuestionModel, 0, len(r.Questions)),
	}
	for i, q := range r.Questions {
		qm := model.QuestionModel{
			QuestionPosition: i,
			QuestionText:     q.QuestionText,
			QuestionType:     q.Type,
			QuestionImageURL: q.ImageURL,
			QuestionFormula:  q.Formula,
			Options:          make([]model.OptionModel, 0, len(q.Options)),
		}
		for j, o := range q.Options {
			qm.Options = append(qm.Options, model.OptionModel{
				OptionPosition:  j,
				OptionText:      o.Text,
				OptionIsCorrect: o.IsCorrect,
			})
		}
		m.Questions = append(m.Questions, qm)
	}
	return m, nil
}

/* =========================================================
   RESPONSE
========================================================= */

type OptionResponse struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	IsCorrect *bool     `json:"is_correct,omitempty"`
}

type QuestionResponse struct {
	ID           uuid.UUID        `json:"id"`
	TestID       uuid.UUID        `json:"test_id"`
	QuestionText string           `json:"question_text"`
	Type         string           `json:"type"`
	ImageURL     *string          `json:"image_url"`
	Formula      *string          `json:"formula"`
	Options      []OptionResponse `json:"options"`
}

type TestResponse struct {
	ID            uuid.UUID          `json:"id"`
	Title         string             `json:"title"`
	ClassID       uuid.UUID          `json:"class_id"`
	ClassName     string             `json:"class_name,omitempty"`
	TeacherID     uuid.UUID          `json:"teacher_id"`
	AttemptsLimit int                `json:"attempts_limit"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Questions     []QuestionResponse `json:"questions"`
}

// FromQuestionModel; withAnswers=false menyembunyikan is_correct (tampilan siswa).
func FromQuestionModel(q model.QuestionModel, withAnswers bool) QuestionResponse {
	out := QuestionResponse{
		ID:           q.QuestionID,
		TestID:       q.QuestionTestID,
		QuestionText: q.QuestionText,
		Type:         q.QuestionType,
		ImageURL:     q.QuestionImageURL,
		Formula:      q.QuestionFormula,
		Options:      make([]OptionResponse, 0, len(q.Options)),
	}
	for _, o := range q.Options {
		or := OptionResponse{ID: o.OptionID, Text: o.OptionText}
		if withAnswers {
			v := o.OptionIsCorrect
			or.IsCorrect = &v
		}
		out.Options = append(out.Options, or)
	}
	return out
}

func FromModel(t *model.TestModel, className string, withAnswers bool) TestResponse {
	out := TestResponse{
		ID:            t.TestID,
		Title:         t.TestTitle,
		ClassID:       t.TestClassID,
		ClassName:     className,
		TeacherID:     t.TestTeacherID,
		AttemptsLimit: t.TestAttemptsLimit,
		CreatedAt:     t.TestCreatedAt,
		UpdatedAt:     t.TestUpdatedAt,
		Questions:     make([]QuestionResponse, 0, len(t.Questions)),
	}
	for _, q := range t.Questions {
		out.Questions = append(out.Questions, FromQuestionModel(q, withAnswers))
	}
	return out
}

// TestListItem: baris GET /api/tests/teacher.
type TestListItem struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	ClassID       uuid.UUID `json:"class_id"`
	ClassName     string    `json:"class_name"`
	AttemptsLimit int       `json:"attempts_limit"`
	QuestionCount int64     `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromSummaries(rows []model.TestSummary) []TestListItem {
	out := make([]TestListItem, 0, len(rows))
	for _, s := range rows {
		out = append(out, TestListItem{
			ID:            s.TestID,
			Title:         s.TestTitle,
			ClassID:       s.TestClassID,
			ClassName:     s.ClassName,
			AttemptsLimit: s.TestAttemptsLimit,
			QuestionCount: s.QuestionCount,
			CreatedAt:     s.TestCreatedAt,
		})
	}
	return out
}

// AvailableTest: baris daftar test siswa.
type AvailableTest struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	ClassID       uuid.UUID `json:"class_id"`
	ClassName     string    `json:"class_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	AttemptsLimit int       `json:"attempts_limit"`
	AttemptsUsed  int64     `json:"attempts_used"`
	Completed     bool      `json:"completed"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
