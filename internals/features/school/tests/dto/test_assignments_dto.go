package dto

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"smarttester_backend/internals/features/school/tests/model"
)

type CreateAssignmentRequest struct {
	TestID    uuid.UUID  `json:"test_id" validate:"required"`
	ClassID   *uuid.UUID `json:"class_id"`
	StudentID *uuid.UUID `json:"student_id"`
}

// ValidateShape: tepat satu target (kelas atau siswa).
func (r *CreateAssignmentRequest) ValidateShape() error {
	if r.TestID == uuid.Nil {
		return errors.New("test_id wajib diisi")
	}
	if (r.ClassID == nil) == (r.StudentID == nil) {
		return errors.New("isi tepat satu dari class_id atau student_id")
	}
	return nil
}

func (r *CreateAssignmentRequest) ToModel() *model.TestAssignmentModel {
	return &model.TestAssignmentModel{
		TestAssignmentTestID:    r.TestID,
		TestAssignmentClassID:   r.ClassID,
		TestAssignmentStudentID: r.StudentID,
	}
}

type AssignmentResponse struct {
	ID        uuid.UUID  `json:"id"`
	TestID    uuid.UUID  `json:"test_id"`
	ClassID   *uuid.UUID `json:"class_id"`
	StudentID *uuid.UUID `json:"student_id"`
	CreatedAt time.Time  `json:"created_at"`
}

func FromAssignmentModel(a *model.TestAssignmentModel) AssignmentResponse {
	return AssignmentResponse{
		ID:        a.TestAssignmentID,
		TestID:    a.TestAssignmentTestID,
		ClassID:   a.TestAssignmentClassID,
		StudentID: a.TestAssignmentStudentID,
		CreatedAt: a.TestAssignmentCreatedAt,
	}
}

func FromAssignmentModels(rows []model.TestAssignmentModel) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromAssignmentModel(&rows[i]))
	}
	return out
}
