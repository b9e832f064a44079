package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"smarttester_backend/internals/features/school/classes/model"
)

type CreateClassRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (r *CreateClassRequest) ToModel(teacherID uuid.UUID) *model.ClassModel {
	return &model.ClassModel{
		ClassName:      strings.TrimSpace(r.Name),
		ClassTeacherID: &teacherID,
	}
}

type ClassResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	TeacherID *uuid.UUID `json:"teacher_id"`
	CreatedAt time.Time  `json:"created_at"`
}

func FromModel(m *model.ClassModel) ClassResponse {
	return ClassResponse{ID: m.ClassID, Name: m.ClassName, TeacherID: m.ClassTeacherID, CreatedAt: m.ClassCreatedAt}
}

func FromModels(rows []model.ClassModel) []ClassResponse {
	out := make([]ClassResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
