package memdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	database "smarttester_backend/internals/databases"
	studentModel "smarttester_backend/internals/features/school/students/model"
)

func (db *DB) EnrollStudent(_ context.Context, s *studentModel.StudentModel) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, ok := db.users[s.StudentUserID]; !ok {
		return database.ErrInvalidReference
	}
	if _, ok := db.classes[s.StudentClassID]; !ok {
		return database.ErrInvalidReference
	}
	for _, existing := range db.students {
		if existing.StudentUserID == s.StudentUserID {
			return database.ErrAlreadyEnrolled
		}
	}
	if s.StudentID == uuid.Nil {
		s.StudentID = uuid.New()
	}
	s.StudentCreatedAt = time.Now().UTC()
	cp := *s
	db.students[s.StudentID] = &cp
	return nil
}

func (db *DB) FindStudentByID(_ context.Context, id uuid.UUID) (*studentModel.StudentModel, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	s, ok := db.students[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (db *DB) FindStudentByUserID(_ context.Context, userID uuid.UUID) (*studentModel.StudentModel, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	for _, s := range db.students {
		if s.StudentUserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (db *DB) FindStudentsByIDs(_ context.Context, ids []uuid.UUID) ([]studentModel.StudentModel, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	var out []studentModel.StudentModel
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if s, ok := db.students[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, *s)
		}
	}
	return out, nil
}

// studentView harus dipanggil dengan lock terpegang.
func (db *DB) studentView(s *studentModel.StudentModel) studentModel.StudentView {
	v := studentModel.StudentView{
		StudentID: s.StudentID,
		UserID:    s.StudentUserID,
		ClassID:   s.StudentClassID,
	}
	if u, ok := db.users[s.StudentUserID]; ok {
		v.Name, v.Email = u.UserName, u.Email
	}
	if c, ok := db.classes[s.StudentClassID]; ok {
		v.ClassName = c.ClassName
	}
	return v
}

func sortViews(out []studentModel.StudentView) {
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
}

func (db *DB) ListStudents(_ context.Context, classID *uuid.UUID) ([]studentModel.StudentView, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	out := make([]studentModel.StudentView, 0)
	for _, s := range db.students {
		if classID != nil && s.StudentClassID != *classID {
			continue
		}
		out = append(out, db.studentView(s))
	}
	sortViews(out)
	return out, nil
}

func (db *DB) LinkParent(_ context.Context, parentID uuid.UUID, studentIDs []uuid.UUID) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, ok := db.users[parentID]; !ok {
		return database.ErrInvalidReference
	}
	for _, sid := range studentIDs {
		if _, ok := db.students[sid]; !ok {
			return database.ErrInvalidReference
		}
	}
	now := time.Now().UTC()
	for _, sid := range studentIDs {
		k := parentKey{parentID, sid}
		if _, ok := db.parents[k]; ok {
			continue
		}
		db.parents[k] = &studentModel.ParentChildModel{
			ParentChildParentID:  parentID,
			ParentChildStudentID: sid,
			ParentChildCreatedAt: now,
		}
	}
	return nil
}

func (db *DB) ListChildren(_ context.Context, parentID uuid.UUID) ([]studentModel.StudentView, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	out := make([]studentModel.StudentView, 0)
	for k := range db.parents {
		if k.parentID != parentID {
			continue
		}
		if s, ok := db.students[k.studentID]; ok {
			out = append(out, db.studentView(s))
		}
	}
	sortViews(out)
	return out, nil
}

func (db *DB) IsParentOf(_ context.Context, parentID, studentID uuid.UUID) (bool, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	_, ok := db.parents[parentKey{parentID, studentID}]
	return ok, nil
}
