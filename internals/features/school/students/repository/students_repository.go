package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "smarttester_backend/internals/databases"
	"smarttester_backend/internals/features/school/students/model"
	helper "smarttester_backend/internals/helpers"
)

type StudentRepository interface {
	EnrollStudent(ctx context.Context, s *model.StudentModel) error
	FindStudentByID(ctx context.Context, id uuid.UUID) (*model.StudentModel, error)
	FindStudentByUserID(ctx context.Context, userID uuid.UUID) (*model.StudentModel, error)
	FindStudentsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.StudentModel, error)
	// classID nil = semua siswa.
	ListStudents(ctx context.Context, classID *uuid.UUID) ([]model.StudentView, error)
	LinkParent(ctx context.Context, parentID uuid.UUID, studentIDs []uuid.UUID) error
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]model.StudentView, error)
	IsParentOf(ctx context.Context, parentID, studentID uuid.UUID) (bool, error)
}

type gormStudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &gormStudentRepository{db: db}
}

const studentViewSelect = `
	s.student_id, s.student_user_id AS user_id, u.user_name AS name, u.email,
	s.student_class_id AS class_id, COALESCE(c.class_name, '') AS class_name`

func (r *gormStudentRepository) viewQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("students AS s").
		Select(studentViewSelect).
		Joins("JOIN users u ON u.id = s.student_user_id").
		Joins("LEFT JOIN classes c ON c.class_id = s.student_class_id")
}

func (r *gormStudentRepository) EnrollStudent(ctx context.Context, s *model.StudentModel) error {
	if s.StudentID == uuid.Nil {
		s.StudentID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(s).Error
	switch {
	case err == nil:
		return nil
	case helper.IsUniqueViolation(err):
		return database.ErrAlreadyEnrolled
	case helper.IsForeignKeyViolation(err):
		return fmt.Errorf("enroll student: %w", database.ErrInvalidReference)
	default:
		return err
	}
}

func (r *gormStudentRepository) FindStudentByID(ctx context.Context, id uuid.UUID) (*model.StudentModel, error) {
	var m model.StudentModel
	if err := r.db.WithContext(ctx).First(&m, "student_id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *gormStudentRepository) FindStudentByUserID(ctx context.Context, userID uuid.UUID) (*model.StudentModel, error) {
	var m model.StudentModel
	if err := r.db.WithContext(ctx).First(&m, "student_user_id = ?", userID).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *gormStudentRepository) FindStudentsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.StudentModel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []model.StudentModel
	err := r.db.WithContext(ctx).
		Where("student_id = ANY(?::uuid[])", pq.StringArray(uuidStrings(ids))).
		Find(&out).Error
	return out, err
}

func (r *gormStudentRepository) ListStudents(ctx context.Context, classID *uuid.UUID) ([]model.StudentView, error) {
	q := r.viewQuery(ctx)
	if classID != nil {
		q = q.Where("s.student_class_id = ?", *classID)
	}
	var out []model.StudentView
	if err := q.Order("u.user_name ASC").Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// LinkParent idempoten: link yang sudah ada diabaikan.
func (r *gormStudentRepository) LinkParent(ctx context.Context, parentID uuid.UUID, studentIDs []uuid.UUID) error {
	if len(studentIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, sid := range studentIDs {
			link := model.ParentChildModel{ParentChildParentID: parentID, ParentChildStudentID: sid}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
				if helper.IsForeignKeyViolation(err) {
					return fmt.Errorf("link parent: %w", database.ErrInvalidReference)
				}
				return err
			}
		}
		return nil
	})
}

func (r *gormStudentRepository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]model.StudentView, error) {
	var out []model.StudentView
	err := r.viewQuery(ctx).
		Joins("JOIN parent_children pc ON pc.parent_child_student_id = s.student_id").
		Where("pc.parent_child_parent_id = ?", parentID).
		Order("u.user_name ASC").
		Scan(&out).Error
	return out, err
}

func (r *gormStudentRepository) IsParentOf(ctx context.Context, parentID, studentID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ParentChildModel{}).
		Where("parent_child_parent_id = ? AND parent_child_student_id = ?", parentID, studentID).
		Count(&n).Error
	return n > 0, err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.ErrNotFound
	}
	return err
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
