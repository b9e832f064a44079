package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"smarttester_backend/internals/features/users/user/model"
)

// UserFilter: field kosong berarti tidak difilter.
type UserFilter struct {
	Role string
	// Query dicocokkan ke nama atau email (case-insensitive).
	Query string
	// Unenrolled: hanya user yang belum punya baris students.
	Unenrolled bool

	Limit  int
	Offset int
}

type UserRepository interface {
	// ListUsers urut nama; total dihitung sebelum limit/offset.
	ListUsers(ctx context.Context, f UserFilter) ([]model.UserModel, int64, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) ListUsers(ctx context.Context, f UserFilter) ([]model.UserModel, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.UserModel{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + s + "%"
		q = q.Where("(user_name ILIKE ? OR email ILIKE ?)", like, like)
	}
	if f.Unenrolled {
		q = q.Where("NOT EXISTS (SELECT 1 FROM students s WHERE s.student_user_id = users.id)")
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.UserModel
	q = q.Order("user_name ASC").Order("id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
