// Package memdb menyimpan semua tabel di memori. Dipakai test dan mode STORE=memory.
package memdb

import (
	"sync"

	"github.com/google/uuid"

	classModel "smarttester_backend/internals/features/school/classes/model"
	classRepo "smarttester_backend/internals/features/school/classes/repository"
	studentModel "smarttester_backend/internals/features/school/students/model"
	studentRepo "smarttester_backend/internals/features/school/students/repository"
	submissionModel "smarttester_backend/internals/features/school/submissions/model"
	submissionRepo "smarttester_backend/internals/features/school/submissions/repository"
	testModel "smarttester_backend/internals/features/school/tests/model"
	testRepo "smarttester_backend/internals/features/school/tests/repository"
	authRepo "smarttester_backend/internals/features/users/auth/repository"
	userModel "smarttester_backend/internals/features/users/user/model"
	userRepo "smarttester_backend/internals/features/users/user/repository"
)

var (
	_ authRepo.AuthRepository             = (*DB)(nil)
	_ classRepo.ClassRepository           = (*DB)(nil)
	_ studentRepo.StudentRepository       = (*DB)(nil)
	_ testRepo.TestRepository             = (*DB)(nil)
	_ submissionRepo.SubmissionRepository = (*DB)(nil)
	_ userRepo.UserRepository             = (*DB)(nil)
)

type parentKey struct {
	parentID  uuid.UUID
	studentID uuid.UUID
}

// DB: satu mutex untuk semua tabel supaya operasi multi-tabel tetap atomik.
type DB struct {
	mutex sync.RWMutex

	users       map[uuid.UUID]*userModel.UserModel
	classes     map[uuid.UUID]*classModel.ClassModel
	students    map[uuid.UUID]*studentModel.StudentModel
	parents     map[parentKey]*studentModel.ParentChildModel
	tests       map[uuid.UUID]*testModel.TestModel // tanpa Questions
	questions   map[uuid.UUID]*testModel.QuestionModel
	assignments map[uuid.UUID]*testModel.TestAssignmentModel
	submissions map[uuid.UUID]*submissionModel.SubmissionModel
}

func Open() *DB {
	return &DB{
		users:       make(map[uuid.UUID]*userModel.UserModel),
		classes:     make(map[uuid.UUID]*classModel.ClassModel),
		students:    make(map[uuid.UUID]*studentModel.StudentModel),
		parents:     make(map[parentKey]*studentModel.ParentChildModel),
		tests:       make(map[uuid.UUID]*testModel.TestModel),
		questions:   make(map[uuid.UUID]*testModel.QuestionModel),
		assignments: make(map[uuid.UUID]*testModel.TestAssignmentModel),
		submissions: make(map[uuid.UUID]*submissionModel.SubmissionModel),
	}
}
