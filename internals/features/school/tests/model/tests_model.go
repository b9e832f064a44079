package model

import (
	"time"

	"github.com/google/uuid"
)

type TestModel struct {
	TestID            uuid.UUID `gorm:"column:test_id;type:uuid;default:gen_random_uuid();primaryKey" json:"test_id"`
	TestTitle         string    `gorm:"column:test_title;size:255;not null" json:"test_title"`
	TestClassID       uuid.UUID `gorm:"column:test_class_id;type:uuid;not null;index:idx_tests_class" json:"test_class_id"`
	TestTeacherID     uuid.UUID `gorm:"column:test_teacher_id;type:uuid;not null;index:idx_tests_teacher" json:"test_teacher_id"`
	TestAttemptsLimit int       `gorm:"column:test_attempts_limit;not null" json:"test_attempts_limit"`
	TestCreatedAt     time.Time `gorm:"column:test_created_at;autoCreateTime" json:"test_created_at"`
	TestUpdatedAt     time.Time `gorm:"column:test_updated_at;autoUpdateTime" json:"test_updated_at"`

	Questions []QuestionModel `gorm:"foreignKey:QuestionTestID;references:TestID" json:"questions,omitempty"`
}

func (TestModel) TableName() string { return "tests" }

// OwnedBy: hanya guru pembuat yang boleh mengelola test.
func (t *TestModel) OwnedBy(teacherID uuid.UUID) bool {
	return t != nil && t.TestTeacherID == teacherID
}

// ImageURLs mengumpulkan URL gambar soal (untuk cleanup file upload).
func (t *TestModel) ImageURLs() []string {
	var out []string
	for _, q := range t.Questions {
		if q.QuestionImageURL != nil && *q.QuestionImageURL != "" {
			out = append(out, *q.QuestionImageURL)
		}
	}
	return out
}

// TestSummary: baris daftar test guru.
type TestSummary struct {
	TestID            uuid.UUID `gorm:"column:test_id"`
	TestTitle         string    `gorm:"column:test_title"`
	TestClassID       uuid.UUID `gorm:"column:test_class_id"`
	ClassName         string    `gorm:"column:class_name"`
	TestAttemptsLimit int       `gorm:"column:test_attempts_limit"`
	QuestionCount     int64     `gorm:"column:question_count"`
	TestCreatedAt     time.Time `gorm:"column:test_created_at"`
}
