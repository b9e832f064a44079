package model

import (
	"time"

	"github.com/google/uuid"
)

// ClassModel: kelas/grup siswa (mis. "10A"). Teacher kosong untuk data lama.
type ClassModel struct {
	ClassID        uuid.UUID  `gorm:"column:class_id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClassName      string     `gorm:"column:class_name;size:100;not null" json:"name"`
	ClassTeacherID *uuid.UUID `gorm:"column:class_teacher_id;type:uuid;index:idx_classes_teacher" json:"teacher_id"`
	ClassCreatedAt time.Time  `gorm:"column:class_created_at;autoCreateTime" json:"created_at"`
}

func (ClassModel) TableName() string { return "classes" }
