package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentModel: keanggotaan user ber-role student di satu kelas (1:1 dengan user).
type StudentModel struct {
	StudentID        uuid.UUID `gorm:"column:student_id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StudentUserID    uuid.UUID `gorm:"column:student_user_id;type:uuid;not null;uniqueIndex:uq_students_user" json:"user_id"`
	StudentClassID   uuid.UUID `gorm:"column:student_class_id;type:uuid;not null;index:idx_students_class" json:"class_id"`
	StudentCreatedAt time.Time `gorm:"column:student_created_at;autoCreateTime" json:"created_at"`
}

func (StudentModel) TableName() string { return "students" }

// ParentChildModel: relasi parent (users.id) ↔ student (students.student_id).
type ParentChildModel struct {
	ParentChildParentID  uuid.UUID `gorm:"column:parent_child_parent_id;type:uuid;primaryKey" json:"parent_id"`
	ParentChildStudentID uuid.UUID `gorm:"column:parent_child_student_id;type:uuid;primaryKey" json:"student_id"`
	ParentChildCreatedAt time.Time `gorm:"column:parent_child_created_at;autoCreateTime" json:"created_at"`
}

func (ParentChildModel) TableName() string { return "parent_children" }

// StudentView: baris students + nama/email user + nama kelas.
type StudentView struct {
	StudentID uuid.UUID `gorm:"column:student_id" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id" json:"user_id"`
	Name      string    `gorm:"column:name" json:"name"`
	Email     string    `gorm:"column:email" json:"email"`
	ClassID   uuid.UUID `gorm:"column:class_id" json:"class_id"`
	ClassName string    `gorm:"column:class_name" json:"class_name"`
}
