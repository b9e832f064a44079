package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "smarttester_backend/internals/databases"
	"smarttester_backend/internals/features/school/submissions/model"
)

type SubmissionRepository interface {
	CountAttempts(ctx context.Context, studentID, testID uuid.UUID) (int64, error)
	// SaveSubmission menyimpan sub sesuai attempts_limit (lihat model.PlanAttempt).
	SaveSubmission(ctx context.Context, sub *model.SubmissionModel, attemptsLimit int) error
	FindSubmissionByID(ctx context.Context, id uuid.UUID) (*model.SubmissionModel, error)
	ListSubmissionViews(ctx context.Context, f model.SubmissionFilter) ([]model.SubmissionView, error)
}

type gormSubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &gormSubmissionRepository{db: db}
}

func (r *gormSubmissionRepository) CountAttempts(ctx context.Context, studentID, testID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SubmissionModel{}).
		Where("submission_student_id = ? AND submission_test_id = ?", studentID, testID).
		Count(&n).Error
	return n, err
}

func (r *gormSubmissionRepository) SaveSubmission(ctx context.Context, sub *model.SubmissionModel, attemptsLimit int) error {
	if sub.SubmissionSubmittedAt.IsZero() {
		sub.SubmissionSubmittedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var used int64
		if err := tx.Model(&model.SubmissionModel{}).
			Where("submission_student_id = ? AND submission_test_id = ?", sub.SubmissionStudentID, sub.SubmissionTestID).
			Count(&used).Error; err != nil {
			return err
		}

		plan, ok := model.PlanAttempt(attemptsLimit, used)
		if !ok {
			return database.ErrAttemptsExhausted
		}
		sub.SubmissionAttemptNumber = plan.Number

		if plan.Upsert {
			var existing model.SubmissionModel
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("submission_student_id = ? AND submission_test_id = ?", sub.SubmissionStudentID, sub.SubmissionTestID).
				Order("submission_submitted_at DESC").
				First(&existing).Error
			switch {
			case err == nil:
				sub.SubmissionID = existing.SubmissionID
				return tx.Model(&existing).Updates(map[string]any{
					"submission_answers":              sub.SubmissionAnswers,
					"submission_score":                sub.SubmissionScore,
					"submission_total_possible_score": sub.SubmissionTotalPossibleScore,
					"submission_attempt_number":       sub.SubmissionAttemptNumber,
					"submission_submitted_at":         sub.SubmissionSubmittedAt,
					"submission_grading":              sub.SubmissionGrading,
				}).Error
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}
		}

		if sub.SubmissionID == uuid.Nil {
			sub.SubmissionID = uuid.New()
		}
		return tx.Create(sub).Error
	})
}

func (r *gormSubmissionRepository) FindSubmissionByID(ctx context.Context, id uuid.UUID) (*model.SubmissionModel, error) {
	var m model.SubmissionModel
	if err := r.db.WithContext(ctx).First(&m, "submission_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *gormSubmissionRepository) ListSubmissionViews(ctx context.Context, f model.SubmissionFilter) ([]model.SubmissionView, error) {
	q := r.db.WithContext(ctx).
		Table("submissions AS sb").
		Select(`sb.*, t.test_title, u.user_name AS student_name, s.student_class_id`).
		Joins("JOIN tests t ON t.test_id = sb.submission_test_id").
		Joins("JOIN students s ON s.student_id = sb.submission_student_id").
		Joins("JOIN users u ON u.id = s.student_user_id")

	if f.StudentIDs != nil {
		if len(f.StudentIDs) == 0 {
			return []model.SubmissionView{}, nil
		}
		q = q.Where("sb.submission_student_id = ANY(?::uuid[])", pq.StringArray(uuidStrings(f.StudentIDs)))
	}
	if f.TestIDs != nil {
		if len(f.TestIDs) == 0 {
			return []model.SubmissionView{}, nil
		}
		q = q.Where("sb.submission_test_id = ANY(?::uuid[])", pq.StringArray(uuidStrings(f.TestIDs)))
	}
	if f.ClassID != nil {
		q = q.Where("s.student_class_id = ?", *f.ClassID)
	}
	if f.TestTeacherID != nil {
		q = q.Where("t.test_teacher_id = ?", *f.TestTeacherID)
	}

	var out []model.SubmissionView
	if err := q.Order("sb.submission_submitted_at DESC").Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return out, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
