package memdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	database "smarttester_backend/internals/databases"
	submissionModel "smarttester_backend/internals/features/school/submissions/model"
)

// countAttempts harus dipanggil dengan lock terpegang.
func (db *DB) countAttempts(studentID, testID uuid.UUID) (int64, *submissionModel.SubmissionModel) {
	var (
		n      int64
		latest *submissionModel.SubmissionModel
	)
	for _, s := range db.submissions {
		if s.SubmissionStudentID == studentID && s.SubmissionTestID == testID {
			n++
			if latest == nil || s.SubmissionSubmittedAt.After(latest.SubmissionSubmittedAt) {
				latest = s
			}
		}
	}
	return n, latest
}

func (db *DB) CountAttempts(_ context.Context, studentID, testID uuid.UUID) (int64, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	n, _ := db.countAttempts(studentID, testID)
	return n, nil
}

func (db *DB) SaveSubmission(_ context.Context, sub *submissionModel.SubmissionModel, attemptsLimit int) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, ok := db.students[sub.SubmissionStudentID]; !ok {
		return database.ErrInvalidReference
	}
	if _, ok := db.tests[sub.SubmissionTestID]; !ok {
		return database.ErrInvalidReference
	}
	if sub.SubmissionSubmittedAt.IsZero() {
		sub.SubmissionSubmittedAt = time.Now().UTC()
	}

	used, latest := db.countAttempts(sub.SubmissionStudentID, sub.SubmissionTestID)
	plan, ok := submissionModel.PlanAttempt(attemptsLimit, used)
	if !ok {
		return database.ErrAttemptsExhausted
	}
	sub.SubmissionAttemptNumber = plan.Number

	switch {
	case plan.Upsert && latest != nil:
		sub.SubmissionID = latest.SubmissionID
	case sub.SubmissionID == uuid.Nil:
		sub.SubmissionID = uuid.New()
	}
	cp := *sub
	db.submissions[sub.SubmissionID] = &cp
	return nil
}

func (db *DB) FindSubmissionByID(_ context.Context, id uuid.UUID) (*submissionModel.SubmissionModel, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	s, ok := db.submissions[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func idSet(ids []uuid.UUID) map[uuid.UUID]bool {
	if ids == nil {
		return nil
	}
	m := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func (db *DB) ListSubmissionViews(_ context.Context, f submissionModel.SubmissionFilter) ([]submissionModel.SubmissionView, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	students, tests := idSet(f.StudentIDs), idSet(f.TestIDs)
	out := make([]submissionModel.SubmissionView, 0)
	for _, s := range db.submissions {
		if students != nil && !students[s.SubmissionStudentID] {
			continue
		}
		if tests != nil && !tests[s.SubmissionTestID] {
			continue
		}
		t, ok := db.tests[s.SubmissionTestID]
		if !ok {
			continue
		}
		st, ok := db.students[s.SubmissionStudentID]
		if !ok {
			continue
		}
		if f.ClassID != nil && st.StudentClassID != *f.ClassID {
			continue
		}
		if f.TestTeacherID != nil && t.TestTeacherID != *f.TestTeacherID {
			continue
		}
		v := submissionModel.SubmissionView{
			SubmissionModel: *s,
			TestTitle:       t.TestTitle,
			StudentClassID:  st.StudentClassID,
		}
		if u, ok := db.users[st.StudentUserID]; ok {
			v.StudentName = u.UserName
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmissionSubmittedAt.After(out[j].SubmissionSubmittedAt)
	})
	return out, nil
}
