package dto

import (
	"strings"

	"github.com/google/uuid"

	userModel "smarttester_backend/internals/features/users/user/model"
)

type RegisterRequest struct {
	Name     string      `json:"name" validate:"required,max=100"`
	Email    string      `json:"email" validate:"required,email,max=255"`
	Password string      `json:"password" validate:"required,min=6,max=72"`
	Role     string      `json:"role" validate:"required,oneof=teacher student parent"`
	ClassID  *uuid.UUID  `json:"class_id"`
	Children []uuid.UUID `json:"children"`
}

// Normalize: trim nama & role. Email dibiarkan apa adanya (unik case-sensitive).
func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Role = strings.TrimSpace(r.Role)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

type LinkParentRequest struct {
	ParentID   uuid.UUID   `json:"parent_id" validate:"required"`
	StudentIDs []uuid.UUID `json:"student_ids" validate:"required,min=1"`
}

type RegisterResponse struct {
	Token string    `json:"token"`
	Role  string    `json:"role"`
	ID    uuid.UUID `json:"id"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	Role  string    `json:"role"`
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
}

type MeResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	ClassID   *uuid.UUID `json:"class_id"`
	StudentID *uuid.UUID `json:"student_id,omitempty"`
}

func FromUserModel(u *userModel.UserModel) MeResponse {
	return MeResponse{ID: u.ID, Name: u.UserName, Email: u.Email, Role: u.Role}
}
