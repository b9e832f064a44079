package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	database "smarttester_backend/internals/databases"
	submissionModel "smarttester_backend/internals/features/school/submissions/model"
	"smarttester_backend/internals/features/school/tests/model"
	helper "smarttester_backend/internals/helpers"
)

type TestRepository interface {
	// CreateTest menulis test + soal + opsi + assignment default ke kelas test.
	CreateTest(ctx context.Context, test *model.TestModel) error
	// ReplaceTest: update header lalu ganti seluruh soal/opsi.
	ReplaceTest(ctx context.Context, test *model.TestModel) error
	DeleteTest(ctx context.Context, testID uuid.UUID) error
	FindTestByID(ctx context.Context, testID uuid.UUID, withQuestions bool) (*model.TestModel, error)
	ListTestsByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.TestSummary, error)
	FindQuestionByID(ctx context.Context, questionID uuid.UUID) (*model.QuestionModel, error)

	CreateAssignment(ctx context.Context, a *model.TestAssignmentModel) error
	FindAssignmentByID(ctx context.Context, id uuid.UUID) (*model.TestAssignmentModel, error)
	ListAssignmentsByTest(ctx context.Context, testID uuid.UUID) ([]model.TestAssignmentModel, error)
	DeleteAssignment(ctx context.Context, id uuid.UUID) error
	ListAssignedTests(ctx context.Context, classID *uuid.UUID, studentID uuid.UUID) ([]model.TestModel, error)
	IsAssigned(ctx context.Context, testID uuid.UUID, classID *uuid.UUID, studentID uuid.UUID) (bool, error)
}

type gormTestRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &gormTestRepository{db: db}
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("question_position ASC")
}

func orderedOptions(db *gorm.DB) *gorm.DB {
	return db.Order("option_position ASC")
}

// AssignIDs mengisi UUID kosong dan foreign key soal/opsi sebelum insert.
func AssignIDs(t *model.TestModel) {
	if t.TestID == uuid.Nil {
		t.TestID = uuid.New()
	}
	for i := range t.Questions {
		q := &t.Questions[i]
		if q.QuestionID == uuid.Nil {
			q.QuestionID = uuid.New()
		}
		q.QuestionTestID = t.TestID
		q.QuestionPosition = i
		for j := range q.Options {
			o := &q.Options[j]
			if o.OptionID == uuid.Nil {
				o.OptionID = uuid.New()
			}
			o.OptionQuestionID = q.QuestionID
			o.OptionPosition = j
		}
	}
}

func (r *gormTestRepository) CreateTest(ctx context.Context, test *model.TestModel) error {
	AssignIDs(test)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Questions + Options ikut ter-insert lewat association.
		if err := tx.Create(test).Error; err != nil {
			return err
		}
		classID := test.TestClassID
		return tx.Create(&model.TestAssignmentModel{
			TestAssignmentID:      uuid.New(),
			TestAssignmentTestID:  test.TestID,
			TestAssignmentClassID: &classID,
		}).Error
	})
	return classify("create test", err)
}

func (r *gormTestRepository) ReplaceTest(ctx context.Context, test *model.TestModel) error {
	for i := range test.Questions {
		test.Questions[i].QuestionID = uuid.Nil
		for j := range test.Questions[i].Options {
			test.Questions[i].Options[j].OptionID = uuid.Nil
		}
	}
	AssignIDs(test)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// sebelum header berubah: subquery membaca kelas lama
		if err := moveClassAssignment(tx, test.TestID, test.TestClassID); err != nil {
			return err
		}
		res := updateTestHeader(tx, test)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return database.ErrNotFound
		}
		if err := deleteQuestions(tx, test.TestID); err != nil {
			return err
		}
		if len(test.Questions) == 0 {
			return nil
		}
		return tx.Create(&test.Questions).Error
	})
	return classify("replace test", err)
}

func updateTestHeader(tx *gorm.DB, test *model.TestModel) *gorm.DB {
	return tx.Model(&model.TestModel{}).
		Where("test_id = ?", test.TestID).
		Updates(map[string]any{
			"test_title":          test.TestTitle,
			"test_class_id":       test.TestClassID,
			"test_attempts_limit": test.TestAttemptsLimit,
			"test_updated_at":     gorm.Expr("NOW()"),
		})
}

// moveClassAssignment: assignment default mengikuti kelas test. Saat kelas
// berubah, baris untuk kelas lama (dan duplikat kelas baru) dihapus lalu
// assignment kelas baru ditulis. Tidak ada efek jika kelas sama.
func moveClassAssignment(tx *gorm.DB, testID, classID uuid.UUID) error {
	if err := tx.Exec(`DELETE FROM test_assignments
		WHERE test_assignment_test_id = @test
		  AND test_assignment_class_id IS NOT NULL
		  AND test_assignment_class_id IN (@class, (SELECT test_class_id FROM tests WHERE test_id = @test))
		  AND (SELECT test_class_id FROM tests WHERE test_id = @test) <> @class`,
		sql.Named("test", testID), sql.Named("class", classID)).Error; err != nil {
		return err
	}
	return tx.Exec(`INSERT INTO test_assignments
		(test_assignment_id, test_assignment_test_id, test_assignment_class_id, test_assignment_created_at)
		SELECT @id, test_id, @class, NOW() FROM tests
		WHERE test_id = @test AND test_class_id <> @class`,
		sql.Named("id", uuid.New()), sql.Named("test", testID), sql.Named("class", classID)).Error
}

func deleteQuestions(tx *gorm.DB, testID uuid.UUID) error {
	if err := tx.Exec(`DELETE FROM options WHERE option_question_id IN
		(SELECT question_id FROM questions WHERE question_test_id = ?)`, testID).Error; err != nil {
		return err
	}
	return tx.Where("question_test_id = ?", testID).Delete(&model.QuestionModel{}).Error
}

func (r *gormTestRepository) DeleteTest(ctx context.Context, testID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_test_id = ?", testID).Delete(&submissionModel.SubmissionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("test_assignment_test_id = ?", testID).Delete(&model.TestAssignmentModel{}).Error; err != nil {
			return err
		}
		if err := deleteQuestions(tx, testID); err != nil {
			return err
		}
		res := tx.Where("test_id = ?", testID).Delete(&model.TestModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return database.ErrNotFound
		}
		return nil
	})
}

func (r *gormTestRepository) FindTestByID(ctx context.Context, testID uuid.UUID, withQuestions bool) (*model.TestModel, error) {
	q := r.db.WithContext(ctx)
	if withQuestions {
		q = q.Preload("Questions", orderedQuestions).Preload("Questions.Options", orderedOptions)
	}
	var t model.TestModel
	if err := q.First(&t, "test_id = ?", testID).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *gormTestRepository) ListTestsByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.TestSummary, error) {
	var out []model.TestSummary
	err := r.db.WithContext(ctx).
		Table("tests AS t").
		Select(`t.test_id, t.test_title, t.test_class_id, COALESCE(c.class_name, '') AS class_name,
			t.test_attempts_limit, t.test_created_at,
			(SELECT COUNT(*) FROM questions q WHERE q.question_test_id = t.test_id) AS question_count`).
		Joins("LEFT JOIN classes c ON c.class_id = t.test_class_id").
		Where("t.test_teacher_id = ?", teacherID).
		Order("t.test_created_at DESC").
		Scan(&out).Error
	return out, err
}

func (r *gormTestRepository) FindQuestionByID(ctx context.Context, questionID uuid.UUID) (*model.QuestionModel, error) {
	var q model.QuestionModel
	if err := r.db.WithContext(ctx).
		Preload("Options", orderedOptions).
		First(&q, "question_id = ?", questionID).Error; err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

/* ====================== ASSIGNMENTS ====================== */

func (r *gormTestRepository) CreateAssignment(ctx context.Context, a *model.TestAssignmentModel) error {
	if a.TestAssignmentID == uuid.Nil {
		a.TestAssignmentID = uuid.New()
	}
	return classify("create assignment", r.db.WithContext(ctx).Create(a).Error)
}

func (r *gormTestRepository) FindAssignmentByID(ctx context.Context, id uuid.UUID) (*model.TestAssignmentModel, error) {
	var a model.TestAssignmentModel
	if err := r.db.WithContext(ctx).First(&a, "test_assignment_id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *gormTestRepository) ListAssignmentsByTest(ctx context.Context, testID uuid.UUID) ([]model.TestAssignmentModel, error) {
	var out []model.TestAssignmentModel
	err := r.db.WithContext(ctx).
		Where("test_assignment_test_id = ?", testID).
		Order("test_assignment_created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *gormTestRepository) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("test_assignment_id = ?", id).Delete(&model.TestAssignmentModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func assignedScope(db *gorm.DB, classID *uuid.UUID, studentID uuid.UUID) *gorm.DB {
	if classID != nil {
		return db.Where("(a.test_assignment_class_id = ? OR a.test_assignment_student_id = ?)", *classID, studentID)
	}
	return db.Where("a.test_assignment_student_id = ?", studentID)
}

func (r *gormTestRepository) ListAssignedTests(ctx context.Context, classID *uuid.UUID, studentID uuid.UUID) ([]model.TestModel, error) {
	var out []model.TestModel
	q := r.db.WithContext(ctx).
		Model(&model.TestModel{}).
		Where("EXISTS (?)", assignedScope(
			r.db.Table("test_assignments AS a").Select("1").Where("a.test_assignment_test_id = tests.test_id"),
			classID, studentID,
		))
	if err := q.Order("test_created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gormTestRepository) IsAssigned(ctx context.Context, testID uuid.UUID, classID *uuid.UUID, studentID uuid.UUID) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Table("test_assignments AS a").Where("a.test_assignment_test_id = ?", testID)
	if err := assignedScope(q, classID, studentID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.ErrNotFound
	}
	return err
}

func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrNotFound):
		return err
	case helper.IsForeignKeyViolation(err), helper.IsCheckViolation(err):
		return fmt.Errorf("%s: %w", op, database.ErrInvalidReference)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
