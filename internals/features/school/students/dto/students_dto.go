package dto

import (
	"time"

	"github.com/google/uuid"

	"smarttester_backend/internals/features/school/students/model"
)

type EnrollStudentRequest struct {
	UserID  uuid.UUID `json:"user_id" validate:"required"`
	ClassID uuid.UUID `json:"class_id" validate:"required"`
}

func (r *EnrollStudentRequest) ToModel() *model.StudentModel {
	return &model.StudentModel{StudentUserID: r.UserID, StudentClassID: r.ClassID}
}

type StudentResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ClassID   uuid.UUID `json:"class_id"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(m *model.StudentModel) StudentResponse {
	return StudentResponse{ID: m.StudentID, UserID: m.StudentUserID, ClassID: m.StudentClassID, CreatedAt: m.StudentCreatedAt}
}
