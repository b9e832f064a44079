package routes

import (
	"gorm.io/gorm"

	"smarttester_backend/internals/databases/memdb"
	classRepo "smarttester_backend/internals/features/school/classes/repository"
	studentRepo "smarttester_backend/internals/features/school/students/repository"
	submissionRepo "smarttester_backend/internals/features/school/submissions/repository"
	testRepo "smarttester_backend/internals/features/school/tests/repository"
	authRepo "smarttester_backend/internals/features/users/auth/repository"
	userRepo "smarttester_backend/internals/features/users/user/repository"
)

// Repositories: semua akses data yang dipakai controller.
type Repositories struct {
	Users       authRepo.AuthRepository
	Directory   userRepo.UserRepository
	Classes     classRepo.ClassRepository
	Students    studentRepo.StudentRepository
	Tests       testRepo.TestRepository
	Submissions submissionRepo.SubmissionRepository
}

func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:       authRepo.NewAuthRepository(db),
		Directory:   userRepo.NewUserRepository(db),
		Classes:     classRepo.NewClassRepository(db),
		Students:    studentRepo.NewStudentRepository(db),
		Tests:       testRepo.NewTestRepository(db),
		Submissions: submissionRepo.NewSubmissionRepository(db),
	}
}

func NewMemoryRepositories(db *memdb.DB) Repositories {
	return Repositories{
		Users:       db,
		Directory:   db,
		Classes:     db,
		Students:    db,
		Tests:       db,
		Submissions: db,
	}
}
