package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	database "smarttester_backend/internals/databases"
	"smarttester_backend/internals/features/school/classes/model"
)

type ClassRepository interface {
	CreateClass(ctx context.Context, class *model.ClassModel) error
	FindClassByID(ctx context.Context, id uuid.UUID) (*model.ClassModel, error)
	// teacherID nil = semua kelas.
	ListClasses(ctx context.Context, teacherID *uuid.UUID) ([]model.ClassModel, error)
}

type gormClassRepository struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) ClassRepository {
	return &gormClassRepository{db: db}
}

func (r *gormClassRepository) CreateClass(ctx context.Context, class *model.ClassModel) error {
	if class.ClassID == uuid.Nil {
		class.ClassID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *gormClassRepository) FindClassByID(ctx context.Context, id uuid.UUID) (*model.ClassModel, error) {
	var m model.ClassModel
	if err := r.db.WithContext(ctx).First(&m, "class_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *gormClassRepository) ListClasses(ctx context.Context, teacherID *uuid.UUID) ([]model.ClassModel, error) {
	q := r.db.WithContext(ctx).Model(&model.ClassModel{})
	if teacherID != nil {
		q = q.Where("class_teacher_id = ?", *teacherID)
	}
	var out []model.ClassModel
	if err := q.Order("class_name ASC, class_created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
