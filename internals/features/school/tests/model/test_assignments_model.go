package model

import (
	"time"

	"github.com/google/uuid"
)

// TestAssignmentModel: test ditugaskan ke satu kelas ATAU satu siswa (CHECK di DB).
type TestAssignmentModel struct {
	TestAssignmentID        uuid.UUID  `gorm:"column:test_assignment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TestAssignmentTestID    uuid.UUID  `gorm:"column:test_assignment_test_id;type:uuid;not null;index:idx_test_assignments_test" json:"test_id"`
	TestAssignmentClassID   *uuid.UUID `gorm:"column:test_assignment_class_id;type:uuid;index:idx_test_assignments_class" json:"class_id"`
	TestAssignmentStudentID *uuid.UUID `gorm:"column:test_assignment_student_id;type:uuid;index:idx_test_assignments_student" json:"student_id"`
	TestAssignmentCreatedAt time.Time  `gorm:"column:test_assignment_created_at;autoCreateTime" json:"created_at"`
}

func (TestAssignmentModel) TableName() string { return "test_assignments" }

// Matches: apakah assignment ini menjangkau siswa (via kelas atau langsung).
func (a *TestAssignmentModel) Matches(classID *uuid.UUID, studentID uuid.UUID) bool {
	if a.TestAssignmentStudentID != nil && *a.TestAssignmentStudentID == studentID {
		return true
	}
	return a.TestAssignmentClassID != nil && classID != nil && *a.TestAssignmentClassID == *classID
}
