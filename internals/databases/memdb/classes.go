package memdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	database "smarttester_backend/internals/databases"
	classModel "smarttester_backend/internals/features/school/classes/model"
)

func (db *DB) CreateClass(_ context.Context, class *classModel.ClassModel) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if class.ClassID == uuid.Nil {
		class.ClassID = uuid.New()
	}
	class.ClassCreatedAt = time.Now().UTC()
	cp := *class
	db.classes[class.ClassID] = &cp
	return nil
}

func (db *DB) FindClassByID(_ context.Context, id uuid.UUID) (*classModel.ClassModel, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	c, ok := db.classes[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (db *DB) ListClasses(_ context.Context, teacherID *uuid.UUID) ([]classModel.ClassModel, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	out := make([]classModel.ClassModel, 0, len(db.classes))
	for _, c := range db.classes {
		if teacherID != nil && (c.ClassTeacherID == nil || *c.ClassTeacherID != *teacherID) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ClassName != out[j].ClassName {
			return out[i].ClassName < out[j].ClassName
		}
		return out[i].ClassCreatedAt.Before(out[j].ClassCreatedAt)
	})
	return out, nil
}
