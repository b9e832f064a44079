package memdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	database "smarttester_backend/internals/databases"
	testModel "smarttester_backend/internals/features/school/tests/model"
	testRepo "smarttester_backend/internals/features/school/tests/repository"
)

func copyQuestion(q *testModel.QuestionModel) testModel.QuestionModel {
	cp := *q
	cp.Options = append([]testModel.OptionModel(nil), q.Options...)
	return cp
}

// questionsOf harus dipanggil dengan lock terpegang.
func (db *DB) questionsOf(testID uuid.UUID) []testModel.QuestionModel {
	var out []testModel.QuestionModel
	for _, q := range db.questions {
		if q.QuestionTestID == testID {
			out = append(out, copyQuestion(q))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionPosition < out[j].QuestionPosition })
	return out
}

func (db *DB) putQuestions(t *testModel.TestModel) {
	for i := range t.Questions {
		cp := copyQuestion(&t.Questions[i])
		db.questions[cp.QuestionID] = &cp
	}
}

func (db *DB) dropQuestions(testID uuid.UUID) {
	for id, q := range db.questions {
		if q.QuestionTestID == testID {
			delete(db.questions, id)
		}
	}
}

func headerOf(t *testModel.TestModel) *testModel.TestModel {
	cp := *t
	cp.Questions = nil
	return &cp
}

func (db *DB) CreateTest(_ context.Context, test *testModel.TestModel) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, ok := db.classes[test.TestClassID]; !ok {
		return database.ErrInvalidReference
	}
	testRepo.AssignIDs(test)
	now := time.Now().UTC()
	test.TestCreatedAt, test.TestUpdatedAt = now, now

	db.tests[test.TestID] = headerOf(test)
	db.putQuestions(test)

	classID := test.TestClassID
	a := &testModel.TestAssignmentModel{
		TestAssignmentID:        uuid.New(),
		TestAssignmentTestID:    test.TestID,
		TestAssignmentClassID:   &classID,
		TestAssignmentCreatedAt: now,
	}
	db.assignments[a.TestAssignmentID] = a
	return nil
}

func (db *DB) ReplaceTest(_ context.Context, test *testModel.TestModel) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	cur, ok := db.tests[test.TestID]
	if !ok {
		return database.ErrNotFound
	}
	if _, ok := db.classes[test.TestClassID]; !ok {
		return database.ErrInvalidReference
	}
	for i := range test.Questions {
		test.Questions[i].QuestionID = uuid.Nil
		for j := range test.Questions[i].Options {
			test.Questions[i].Options[j].OptionID = uuid.Nil
		}
	}
	testRepo.AssignIDs(test)

	test.TestCreatedAt = cur.TestCreatedAt
	test.TestTeacherID = cur.TestTeacherID
	test.TestUpdatedAt = time.Now().UTC()
	if cur.TestClassID != test.TestClassID {
		db.moveClassAssignment(test.TestID, cur.TestClassID, test.TestClassID, test.TestUpdatedAt)
	}
	db.tests[test.TestID] = headerOf(test)
	db.dropQuestions(test.TestID)
	db.putQuestions(test)
	return nil
}

// moveClassAssignment harus dipanggil dengan lock terpegang.
func (db *DB) moveClassAssignment(testID, from, to uuid.UUID, now time.Time) {
	for id, a := range db.assignments {
		if a.TestAssignmentTestID != testID || a.TestAssignmentClassID == nil {
			continue
		}
		if c := *a.TestAssignmentClassID; c == from || c == to {
			delete(db.assignments, id)
		}
	}
	classID := to
	a := &testModel.TestAssignmentModel{
		TestAssignmentID:        uuid.New(),
		TestAssignmentTestID:    testID,
		TestAssignmentClassID:   &classID,
		TestAssignmentCreatedAt: now,
	}
	db.assignments[a.TestAssignmentID] = a
}

func (db *DB) DeleteTest(_ context.Context, testID uuid.UUID) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, ok := db.tests[testID]; !ok {
		return database.ErrNotFound
	}
	for id, s := range db.submissions {
		if s.SubmissionTestID == testID {
			delete(db.submissions, id)
		}
	}
	for id, a := range db.assignments {
		if a.TestAssignmentTestID == testID {
			delete(db.assignments, id)
		}
	}
	db.dropQuestions(testID)
	delete(db.tests, testID)
	return nil
}

func (db *DB) FindTestByID(_ context.Context, testID uuid.UUID, withQuestions bool) (*testModel.TestModel, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	t, ok := db.tests[testID]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *t
	if withQuestions {
		cp.Questions = db.questionsOf(testID)
	}
	return &cp, nil
}

func (db *DB) ListTestsByTeacher(_ context.Context, teacherID uuid.UUID) ([]testModel.TestSummary, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	out := make([]testModel.TestSummary, 0)
	for _, t := range db.tests {
		if t.TestTeacherID != teacherID {
			continue
		}
		s := testModel.TestSummary{
			TestID:            t.TestID,
			TestTitle:         t.TestTitle,
			TestClassID:       t.TestClassID,
			TestAttemptsLimit: t.TestAttemptsLimit,
			QuestionCount:     int64(len(db.questionsOf(t.TestID))),
			TestCreatedAt:     t.TestCreatedAt,
		}
		if c, ok := db.classes[t.TestClassID]; ok {
			s.ClassName = c.ClassName
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TestCreatedAt.After(out[j].TestCreatedAt) })
	return out, nil
}

func (db *DB) FindQuestionByID(_ context.Context, questionID uuid.UUID) (*testModel.QuestionModel, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	q, ok := db.questions[questionID]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := copyQuestion(q)
	return &cp, nil
}

/* ====================== ASSIGNMENTS ====================== */

func (db *DB) CreateAssignment(_ context.Context, a *testModel.TestAssignmentModel) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, ok := db.tests[a.TestAssignmentTestID]; !ok {
		return database.ErrInvalidReference
	}
	if (a.TestAssignmentClassID == nil) == (a.TestAssignmentStudentID == nil) {
		return database.ErrInvalidReference
	}
	if a.TestAssignmentClassID != nil {
		if _, ok := db.classes[*a.TestAssignmentClassID]; !ok {
			return database.ErrInvalidReference
		}
	}
	if a.TestAssignmentStudentID != nil {
		if _, ok := db.students[*a.TestAssignmentStudentID]; !ok {
			return database.ErrInvalidReference
		}
	}
	if a.TestAssignmentID == uuid.Nil {
		a.TestAssignmentID = uuid.New()
	}
	a.TestAssignmentCreatedAt = time.Now().UTC()
	cp := *a
	db.assignments[a.TestAssignmentID] = &cp
	return nil
}

func (db *DB) FindAssignmentByID(_ context.Context, id uuid.UUID) (*testModel.TestAssignmentModel, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	a, ok := db.assignments[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (db *DB) ListAssignmentsByTest(_ context.Context, testID uuid.UUID) ([]testModel.TestAssignmentModel, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	out := make([]testModel.TestAssignmentModel, 0)
	for _, a := range db.assignments {
		if a.TestAssignmentTestID == testID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TestAssignmentCreatedAt.Before(out[j].TestAssignmentCreatedAt)
	})
	return out, nil
}

func (db *DB) DeleteAssignment(_ context.Context, id uuid.UUID) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, ok := db.assignments[id]; !ok {
		return database.ErrNotFound
	}
	delete(db.assignments, id)
	return nil
}

// assigned harus dipanggil dengan lock terpegang.
func (db *DB) assigned(testID uuid.UUID, classID *uuid.UUID, studentID uuid.UUID) bool {
	for _, a := range db.assignments {
		if a.TestAssignmentTestID == testID && a.Matches(classID, studentID) {
			return true
		}
	}
	return false
}

func (db *DB) ListAssignedTests(_ context.Context, classID *uuid.UUID, studentID uuid.UUID) ([]testModel.TestModel, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	out := make([]testModel.TestModel, 0)
	for _, t := range db.tests {
		if db.assigned(t.TestID, classID, studentID) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TestCreatedAt.After(out[j].TestCreatedAt) })
	return out, nil
}

func (db *DB) IsAssigned(_ context.Context, testID uuid.UUID, classID *uuid.UUID, studentID uuid.UUID) (bool, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	return db.assigned(testID, classID, studentID), nil
}
