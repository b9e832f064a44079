// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	database "smarttester_backend/internals/databases"
	studentModel "smarttester_backend/internals/features/school/students/model"
	userModel "smarttester_backend/internals/features/users/user/model"
	helper "smarttester_backend/internals/helpers"
)

// RegisterExtras: baris tambahan yang ditulis dalam transaksi yang sama dengan user.
type RegisterExtras struct {
	Student  *studentModel.StudentModel // role student + class_id
	ChildIDs []uuid.UUID                // role parent + children
}

type AuthRepository interface {
	FindUserByEmail(ctx context.Context, email string) (*userModel.UserModel, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error)
	CreateUser(ctx context.Context, user *userModel.UserModel, extras RegisterExtras) error
	UpdateUserPassword(ctx context.Context, id uuid.UUID, hashed string) error
}

type gormAuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &gormAuthRepository{db: db}
}

/* ====================== USER ====================== */

func (r *gormAuthRepository) FindUserByEmail(ctx context.Context, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *gormAuthRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *gormAuthRepository) CreateUser(ctx context.Context, user *userModel.UserModel, extras RegisterExtras) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists bool
		if err := tx.Raw(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, user.Email).
			Scan(&exists).Error; err != nil {
			return err
		}
		if exists {
			return database.ErrEmailTaken
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		if s := extras.Student; s != nil {
			if s.StudentID == uuid.Nil {
				s.StudentID = uuid.New()
			}
			s.StudentUserID = user.ID
			if err := tx.Create(s).Error; err != nil {
				return err
			}
		}

		if len(extras.ChildIDs) > 0 {
			links := make([]studentModel.ParentChildModel, 0, len(extras.ChildIDs))
			for _, sid := range dedupe(extras.ChildIDs) {
				links = append(links, studentModel.ParentChildModel{
					ParentChildParentID:  user.ID,
					ParentChildStudentID: sid,
				})
			}
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}
		return nil
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrEmailTaken), helper.IsUniqueViolation(err):
		return database.ErrEmailTaken
	case helper.IsForeignKeyViolation(err):
		return fmt.Errorf("create user: %w", database.ErrInvalidReference)
	default:
		return fmt.Errorf("create user: %w", err)
	}
}

func (r *gormAuthRepository) UpdateUserPassword(ctx context.Context, id uuid.UUID, hashed string) error {
	res := r.db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ?", id).
		Update("password", hashed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.ErrNotFound
	}
	return err
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
