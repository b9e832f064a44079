// Package demo mengisi data contoh (guru, kelas, siswa, orang tua, satu test).
package demo

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"smarttester_backend/internals/constants"
	database "smarttester_backend/internals/databases"
	classModel "smarttester_backend/internals/features/school/classes/model"
	classRepo "smarttester_backend/internals/features/school/classes/repository"
	studentModel "smarttester_backend/internals/features/school/students/model"
	studentRepo "smarttester_backend/internals/features/school/students/repository"
	testDTO "smarttester_backend/internals/features/school/tests/dto"
	testRepo "smarttester_backend/internals/features/school/tests/repository"
	authRepo "smarttester_backend/internals/features/users/auth/repository"
	authService "smarttester_backend/internals/features/users/auth/service"
	userModel "smarttester_backend/internals/features/users/user/model"
)

//go:embed demo.json
var demoJSON []byte

type userSeed struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type studentSeed struct {
	userSeed
	Class string `json:"class"`
}

type parentSeed struct {
	userSeed
	Children []string `json:"children"`
}

type testSeed struct {
	testDTO.UpsertTestRequest
	Class string `json:"class"`
}

type demoSeed struct {
	Teacher  userSeed      `json:"teacher"`
	Classes  []string      `json:"classes"`
	Students []studentSeed `json:"students"`
	Parents  []parentSeed  `json:"parents"`
	Tests    []testSeed    `json:"tests"`
}

type Repos struct {
	Users    authRepo.AuthRepository
	Classes  classRepo.ClassRepository
	Students studentRepo.StudentRepository
	Tests    testRepo.TestRepository
}

// Run idempotent: kalau email guru sudah ada, seluruh seed dilewati.
func Run(ctx context.Context, r Repos) error {
	var seed demoSeed
	if err := sonic.Unmarshal(demoJSON, &seed); err != nil {
		return fmt.Errorf("decode demo seed: %w", err)
	}

	if _, err := r.Users.FindUserByEmail(ctx, seed.Teacher.Email); err == nil {
		log.Printf("ℹ️ Seed demo sudah ada (%s), dilewati.", seed.Teacher.Email)
		return nil
	} else if !errors.Is(err, database.ErrNotFound) {
		return err
	}

	teacher, err := createUser(ctx, r, seed.Teacher, constants.RoleTeacher, authRepo.RegisterExtras{})
	if err != nil {
		return err
	}

	classIDs := make(map[string]uuid.UUID, len(seed.Classes))
	for _, name := range seed.Classes {
		c := &classModel.ClassModel{ClassName: name, ClassTeacherID: &teacher.ID}
		if err := r.Classes.CreateClass(ctx, c); err != nil {
			return fmt.Errorf("seed class %s: %w", name, err)
		}
		classIDs[name] = c.ClassID
	}

	studentIDs := make(map[string]uuid.UUID, len(seed.Students))
	for _, s := range seed.Students {
		classID, ok := classIDs[s.Class]
		if !ok {
			return fmt.Errorf("seed student %s: unknown class %q", s.Email, s.Class)
		}
		st := &studentModel.StudentModel{StudentClassID: classID}
		if _, err := createUser(ctx, r, s.userSeed, constants.RoleStudent, authRepo.RegisterExtras{Student: st}); err != nil {
			return err
		}
		studentIDs[s.Email] = st.StudentID
	}

	for _, p := range seed.Parents {
		children := make([]uuid.UUID, 0, len(p.Children))
		for _, email := range p.Children {
			id, ok := studentIDs[email]
			if !ok {
				return fmt.Errorf("seed parent %s: unknown child %q", p.Email, email)
			}
			children = append(children, id)
		}
		if _, err := createUser(ctx, r, p.userSeed, constants.RoleParent, authRepo.RegisterExtras{ChildIDs: children}); err != nil {
			return err
		}
	}

	for i := range seed.Tests {
		t := &seed.Tests[i]
		classID, ok := classIDs[t.Class]
		if !ok {
			return fmt.Errorf("seed test %s: unknown class %q", t.Title, t.Class)
		}
		t.ClassID = classID.String()
		t.Normalize()
		if err := t.ValidateShape(); err != nil {
			return fmt.Errorf("seed test %s: %w", t.Title, err)
		}
		m, err := t.ToModel(teacher.ID)
		if err != nil {
			return err
		}
		if err := r.Tests.CreateTest(ctx, m); err != nil {
			return fmt.Errorf("seed test %s: %w", t.Title, err)
		}
	}

	log.Printf("✅ Seed demo: %d kelas, %d siswa, %d orang tua, %d test",
		len(seed.Classes), len(seed.Students), len(seed.Parents), len(seed.Tests))
	return nil
}

func createUser(ctx context.Context, r Repos, s userSeed, role string, extras authRepo.RegisterExtras) (*userModel.UserModel, error) {
	hashed, err := authService.HashPassword(s.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password %s: %w", s.Email, err)
	}
	u := &userModel.UserModel{
		ID:       uuid.New(),
		UserName: s.Name,
		Email:    s.Email,
		Password: hashed,
		Role:     role,
	}
	if err := r.Users.CreateUser(ctx, u, extras); err != nil {
		return nil, fmt.Errorf("seed user %s: %w", s.Email, err)
	}
	return u, nil
}
