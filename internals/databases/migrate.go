package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	classModel "smarttester_backend/internals/features/school/classes/model"
	studentModel "smarttester_backend/internals/features/school/students/model"
	submissionModel "smarttester_backend/internals/features/school/submissions/model"
	testModel "smarttester_backend/internals/features/school/tests/model"
	userModel "smarttester_backend/internals/features/users/user/model"
)

type constraintSpec struct {
	table, name, def string
}

// constraints: FK dan CHECK yang tidak bisa diekspresikan lewat tag gorm.
var constraints = []constraintSpec{
	{"users", "ck_users_role", `CHECK (role IN ('teacher','student','parent'))`},
	{"classes", "fk_classes_teacher", `FOREIGN KEY (class_teacher_id) REFERENCES users(id) ON DELETE SET NULL`},
	{"students", "fk_students_user", `FOREIGN KEY (student_user_id) REFERENCES users(id) ON DELETE CASCADE`},
	{"students", "fk_students_class", `FOREIGN KEY (student_class_id) REFERENCES classes(class_id)`},
	{"parent_children", "fk_parent_children_parent", `FOREIGN KEY (parent_child_parent_id) REFERENCES users(id) ON DELETE CASCADE`},
	{"parent_children", "fk_parent_children_student", `FOREIGN KEY (parent_child_student_id) REFERENCES students(student_id) ON DELETE CASCADE`},
	{"tests", "fk_tests_class", `FOREIGN KEY (test_class_id) REFERENCES classes(class_id)`},
	{"tests", "fk_tests_teacher", `FOREIGN KEY (test_teacher_id) REFERENCES users(id)`},
	{"tests", "ck_tests_attempts_limit", `CHECK (test_attempts_limit >= 0)`},
	{"questions", "fk_questions_test", `FOREIGN KEY (question_test_id) REFERENCES tests(test_id) ON DELETE CASCADE`},
	{"questions", "ck_questions_type", `CHECK (question_type IN ('single','multiple'))`},
	{"options", "fk_options_question", `FOREIGN KEY (option_question_id) REFERENCES questions(question_id) ON DELETE CASCADE`},
	{"test_assignments", "fk_test_assignments_test", `FOREIGN KEY (test_assignment_test_id) REFERENCES tests(test_id) ON DELETE CASCADE`},
	{"test_assignments", "fk_test_assignments_class", `FOREIGN KEY (test_assignment_class_id) REFERENCES classes(class_id) ON DELETE CASCADE`},
	{"test_assignments", "fk_test_assignments_student", `FOREIGN KEY (test_assignment_student_id) REFERENCES students(student_id) ON DELETE CASCADE`},
	{"test_assignments", "ck_test_assignments_target", `CHECK ((test_assignment_class_id IS NULL) <> (test_assignment_student_id IS NULL))`},
	{"submissions", "fk_submissions_student", `FOREIGN KEY (submission_student_id) REFERENCES students(student_id) ON DELETE CASCADE`},
	{"submissions", "fk_submissions_test", `FOREIGN KEY (submission_test_id) REFERENCES tests(test_id) ON DELETE CASCADE`},
	{"submissions", "ck_submissions_score", `CHECK (submission_score >= 0 AND submission_score <= submission_total_possible_score)`},
}

// addConstraintSQL: satu DO block per constraint, supaya constraint yang
// sudah ada tidak membuat constraint lain ikut terlewat.
func addConstraintSQL(c constraintSpec) string {
	return fmt.Sprintf(`DO $$ BEGIN
	ALTER TABLE %s ADD CONSTRAINT %s %s;
EXCEPTION WHEN duplicate_object THEN NULL; END $$`, c.table, c.name, c.def)
}

// schemaDDL: semua statement idempoten, dijalankan setelah AutoMigrate.
func schemaDDL() []string {
	out := []string{`CREATE EXTENSION IF NOT EXISTS pgcrypto`}
	for _, c := range constraints {
		out = append(out, addConstraintSQL(c))
	}
	return append(out,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_options_question_text ON options(option_question_id, option_text)`,
		// skema lama memberi DEFAULT 1; nilai selalu dikirim aplikasi (0 = tanpa batas)
		`ALTER TABLE tests ALTER COLUMN test_attempts_limit DROP DEFAULT`,
	)
}

// Migrate membuat/menyesuaikan tabel lalu memasang constraint.
func Migrate(db *gorm.DB) error {
	log.Println("[INFO] Running auto-migrate...")
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&classModel.ClassModel{},
		&studentModel.StudentModel{},
		&studentModel.ParentChildModel{},
		&testModel.TestModel{},
		&testModel.QuestionModel{},
		&testModel.OptionModel{},
		&testModel.TestAssignmentModel{},
		&submissionModel.SubmissionModel{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	for _, stmt := range schemaDDL() {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("constraint ddl: %w", err)
		}
	}
	log.Println("[INFO] Migration done.")
	return nil
}
