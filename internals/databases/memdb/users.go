package memdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	database "smarttester_backend/internals/databases"
	studentModel "smarttester_backend/internals/features/school/students/model"
	authRepo "smarttester_backend/internals/features/users/auth/repository"
	userModel "smarttester_backend/internals/features/users/user/model"
	userRepo "smarttester_backend/internals/features/users/user/repository"
)

func (db *DB) FindUserByEmail(_ context.Context, email string) (*userModel.UserModel, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	for _, u := range db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (db *DB) FindUserByID(_ context.Context, id uuid.UUID) (*userModel.UserModel, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	u, ok := db.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (db *DB) CreateUser(_ context.Context, user *userModel.UserModel, extras authRepo.RegisterExtras) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	for _, u := range db.users {
		if u.Email == user.Email {
			return database.ErrEmailTaken
		}
	}
	if s := extras.Student; s != nil {
		if _, ok := db.classes[s.StudentClassID]; !ok {
			return database.ErrInvalidReference
		}
	}
	for _, sid := range extras.ChildIDs {
		if _, ok := db.students[sid]; !ok {
			return database.ErrInvalidReference
		}
	}

	now := time.Now().UTC()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt, user.UpdatedAt = now, now
	cp := *user
	db.users[user.ID] = &cp

	if s := extras.Student; s != nil {
		if s.StudentID == uuid.Nil {
			s.StudentID = uuid.New()
		}
		s.StudentUserID = user.ID
		s.StudentCreatedAt = now
		sc := *s
		db.students[s.StudentID] = &sc
	}
	for _, sid := range extras.ChildIDs {
		db.parents[parentKey{user.ID, sid}] = &studentModel.ParentChildModel{
			ParentChildParentID:  user.ID,
			ParentChildStudentID: sid,
			ParentChildCreatedAt: now,
		}
	}
	return nil
}

func (db *DB) UpdateUserPassword(_ context.Context, id uuid.UUID, hashed string) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	u, ok := db.users[id]
	if !ok {
		return database.ErrNotFound
	}
	u.Password = hashed
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (db *DB) ListUsers(_ context.Context, f userRepo.UserFilter) ([]userModel.UserModel, int64, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	enrolled := make(map[uuid.UUID]bool, len(db.students))
	for _, s := range db.students {
		enrolled[s.StudentUserID] = true
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]userModel.UserModel, 0)
	for _, u := range db.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(u.UserName), q) && !strings.Contains(strings.ToLower(u.Email), q) {
			continue
		}
		if f.Unenrolled && enrolled[u.ID] {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserName != out[j].UserName {
			return out[i].UserName < out[j].UserName
		}
		return out[i].ID.String() < out[j].ID.String()
	})

	total := int64(len(out))
	if f.Limit > 0 {
		if f.Offset >= len(out) {
			return []userModel.UserModel{}, total, nil
		}
		end := f.Offset + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[f.Offset:end]
	}
	return out, total, nil
}
