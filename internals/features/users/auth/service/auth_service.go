package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"smarttester_backend/internals/constants"
	database "smarttester_backend/internals/databases"
	classRepo "smarttester_backend/internals/features/school/classes/repository"
	studentModel "smarttester_backend/internals/features/school/students/model"
	studentRepo "smarttester_backend/internals/features/school/students/repository"
	"smarttester_backend/internals/features/users/auth/dto"
	"smarttester_backend/internals/features/users/auth/repository"
	userModel "smarttester_backend/internals/features/users/user/model"
	helper "smarttester_backend/internals/helpers"
	helperAuth "smarttester_backend/internals/helpers/auth"
)

var (
	// ErrInvalidCredentials sengaja generik: email tidak dikenal = password salah.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type AuthService struct {
	Repo     repository.AuthRepository
	Students studentRepo.StudentRepository
	Classes  classRepo.ClassRepository
	Secret   string
	TTL      time.Duration
	Now      func() time.Time
}

func NewAuthService(repo repository.AuthRepository, students studentRepo.StudentRepository, classes classRepo.ClassRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{Repo: repo, Students: students, Classes: classes, Secret: secret, TTL: ttl, Now: time.Now}
}

// identityOf: class_id hanya diisi untuk siswa yang sudah terdaftar di kelas.
func (s *AuthService) identityOf(ctx context.Context, u *userModel.UserModel) (helperAuth.Identity, error) {
	id := helperAuth.Identity{UserID: u.ID, Role: u.Role, Name: u.UserName}
	if u.Role != constants.RoleStudent {
		return id, nil
	}
	st, err := s.Students.FindStudentByUserID(ctx, u.ID)
	switch {
	case err == nil:
		cid := st.StudentClassID
		id.ClassID = &cid
	case !errors.Is(err, database.ErrNotFound):
		return id, err
	}
	return id, nil
}

func (s *AuthService) issue(ctx context.Context, u *userModel.UserModel) (string, error) {
	id, err := s.identityOf(ctx, u)
	if err != nil {
		return "", err
	}
	return helperAuth.IssueToken(s.Secret, id, s.TTL, s.Now())
}

// Register: user + (enrollment | link anak) dalam satu transaksi.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*userModel.UserModel, string, error) {
	extras := repository.RegisterExtras{}

	switch req.Role {
	case constants.RoleStudent:
		if req.ClassID != nil {
			if _, err := s.Classes.FindClassByID(ctx, *req.ClassID); err != nil {
				if errors.Is(err, database.ErrNotFound) {
					return nil, "", helper.NewValidationError(err, helper.FieldError{Field: "class_id", Error: "class not found"})
				}
				return nil, "", err
			}
			extras.Student = &studentModel.StudentModel{StudentClassID: *req.ClassID}
		}
	case constants.RoleParent:
		if len(req.Children) > 0 {
			found, err := s.Students.FindStudentsByIDs(ctx, req.Children)
			if err != nil {
				return nil, "", err
			}
			if len(found) != len(uniqueIDs(req.Children)) {
				return nil, "", helper.NewValidationError(database.ErrInvalidReference,
					helper.FieldError{Field: "children", Error: "every child must be an existing student"})
			}
			extras.ChildIDs = uniqueIDs(req.Children)
		}
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	user := &userModel.UserModel{
		ID:       uuid.New(),
		UserName: req.Name,
		Email:    req.Email,
		Password: hashed,
		Role:     req.Role,
	}
	if err := s.Repo.CreateUser(ctx, user, extras); err != nil {
		switch {
		case errors.Is(err, database.ErrEmailTaken):
			return nil, "", helper.NewValidationError(err, helper.FieldError{Field: "email", Error: "email already registered"})
		case errors.Is(err, database.ErrInvalidReference):
			return nil, "", helper.NewValidationError(err)
		}
		return nil, "", err
	}

	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, "", err
	}
	log.Printf("[INFO] user registered: %s (%s)", user.ID, user.Role)
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*userModel.UserModel, string, error) {
	user, err := s.Repo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := CheckPasswordHash(user.Password, req.Password); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, error) {
	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := dto.FromUserModel(user)
	if user.Role == constants.RoleStudent {
		st, err := s.Students.FindStudentByUserID(ctx, user.ID)
		switch {
		case err == nil:
			cid, sid := st.StudentClassID, st.StudentID
			out.ClassID, out.StudentID = &cid, &sid
		case !errors.Is(err, database.ErrNotFound):
			return nil, err
		}
	}
	return &out, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := CheckPasswordHash(user.Password, req.CurrentPassword); err != nil {
		return ErrWrongPassword
	}
	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Repo.UpdateUserPassword(ctx, userID, hashed)
}

// LinkParent: hubungkan parent yang sudah ada ke daftar siswa (idempoten).
func (s *AuthService) LinkParent(ctx context.Context, req *dto.LinkParentRequest) error {
	parent, err := s.Repo.FindUserByID(ctx, req.ParentID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return helper.NewValidationError(err, helper.FieldError{Field: "parent_id", Error: "parent not found"})
		}
		return err
	}
	if parent.Role != constants.RoleParent {
		return helper.NewValidationError(errors.New("user is not a parent"),
			helper.FieldError{Field: "parent_id", Error: "user is not a parent"})
	}
	ids := uniqueIDs(req.StudentIDs)
	found, err := s.Students.FindStudentsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return helper.NewValidationError(database.ErrInvalidReference,
			helper.FieldError{Field: "student_ids", Error: "every id must be an existing student"})
	}
	return s.Students.LinkParent(ctx, parent.ID, ids)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
