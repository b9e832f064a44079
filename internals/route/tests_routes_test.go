package routes

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	submissionDTO "smarttester_backend/internals/features/school/submissions/dto"
	testDTO "smarttester_backend/internals/features/school/tests/dto"
)

func createTest(t *testing.T, app *fiber.App, token string, body map[string]any) testDTO.TestResponse {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/api/tests", token, body)
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))
	var out testDTO.TestResponse
	resp.decode(t, &out)
	return out
}

func correctTexts(q testDTO.QuestionResponse) []string {
	var out []string
	for _, o := range q.Options {
		if o.IsCorrect != nil && *o.IsCorrect {
			out = append(out, o.Text)
		}
	}
	return out
}

func TestCreateAndViewTest_RoundTrip(t *testing.T) {
	app := newTestApp(t)
	teacher := register(t, app, "Bu Sari", "sari@example.com", "teacher", nil)
	classID := createClass(t, app, teacher, "10A")

	created := createTest(t, app, teacher.Token, algebraQuiz(classID, nil))
	assert.Equal(t, "Algebra Quiz", created.Title)
	assert.Equal(t, 1, created.AttemptsLimit)

	resp := doJSON(t, app, fiber.MethodGet, "/api/tests/view/"+created.ID.String(), teacher.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	var viewed testDTO.TestResponse
	resp.decode(t, &viewed)

	require.Len(t, viewed.Questions, 2)
	assert.Equal(t, "2 + 2 = ?", viewed.Questions[0].QuestionText)
	assert.Equal(t, []string{"4"}, correctTexts(viewed.Questions[0]))
	assert.Equal(t, []string{"2", "3"}, correctTexts(viewed.Questions[1]))
	assert.Equal(t, "10A", viewed.ClassName)

	resp = doJSON(t, app, fiber.MethodGet, "/api/tests/teacher", teacher.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	var list []testDTO.TestListItem
	resp.decode(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].QuestionCount)
	assert.Equal(t, "10A", list[0].ClassName)
}

func TestCreateTest_Rejects(t *testing.T) {
	app := newTestApp(t)
	teacher := register(t, app, "Bu Sari", "sari@example.com", "teacher", nil)
	classID := createClass(t, app, teacher, "10A")

	unknownClass := algebraQuiz(uuid.New(), nil)
	resp := doJSON(t, app, fiber.MethodPost, "/api/tests", teacher.Token, unknownClass)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)

	noQuestions := algebraQuiz(classID, nil)
	noQuestions["questions"] = []any{}
	resp = doJSON(t, app, fiber.MethodPost, "/api/tests", teacher.Token, noQuestions)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)

	oneOption := algebraQuiz(classID, nil)
	oneOption["questions"] = []map[string]any{{
		"question_text": "?", "type": "single",
		"options": []map[string]any{{"text": "a", "is_correct": true}},
	}}
	resp = doJSON(t, app, fiber.MethodPost, "/api/tests", teacher.Token, oneOption)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status)
}

func TestEditAndDeleteTest(t *testing.T) {
	app := newTestApp(t)
	teacher := register(t, app, "Bu Sari", "sari@example.com", "teacher", nil)
	other := register(t, app, "Pak Budi", "budi@example.com", "teacher", nil)
	classID := createClass(t, app, teacher, "10A")
	created := createTest(t, app, teacher.Token, algebraQuiz(classID, nil))
	oldQuestion := created.Questions[0].ID

	edit := algebraQuiz(classID, nil)
	edit["title"] = "Algebra Quiz v2"
	edit["questions"] = []map[string]any{{
		"question_text": "3 * 3 = ?", "type": "single",
		"options": []string{"6", "9"}, "correct_answer": "9",
	}}

	resp := doJSON(t, app, fiber.MethodPut, "/api/tests/edit/"+created.ID.String(), other.Token, edit)
	assert.Equal(t, fiber.StatusNotFound, resp.Status, "non-owner edit")

	resp = doJSON(t, app, fiber.MethodPut, "/api/tests/edit/"+created.ID.String(), teacher.Token, edit)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	var edited testDTO.TestResponse
	resp.decode(t, &edited)
	assert.Equal(t, "Algebra Quiz v2", edited.Title)
	require.Len(t, edited.Questions, 1)
	assert.Equal(t, []string{"9"}, correctTexts(edited.Questions[0]))

	resp = doJSON(t, app, fiber.MethodGet, "/api/tests/questions/"+oldQuestion.String(), teacher.Token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status, "replaced question is gone")

	newQuestion := edited.Questions[0].ID
	resp = doJSON(t, app, fiber.MethodGet, "/api/tests/questions/"+newQuestion.String(), teacher.Token, nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)

	resp = doJSON(t, app, fiber.MethodDelete, "/api/tests/"+created.ID.String(), other.Token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status, "non-owner delete")

	resp = doJSON(t, app, fiber.MethodDelete, "/api/tests/"+created.ID.String(), teacher.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))

	resp = doJSON(t, app, fiber.MethodGet, "/api/tests/questions/"+newQuestion.String(), teacher.Token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
	resp = doJSON(t, app, fiber.MethodGet, "/api/tests/view/"+created.ID.String(), teacher.Token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
}

func TestAvailableTests_ClassIsolation(t *testing.T) {
	app := newTestApp(t)
	teacher := register(t, app, "Bu Sari", "sari@example.com", "teacher", nil)
	classA := createClass(t, app, teacher, "10A")
	classB := createClass(t, app, teacher, "10B")
	inA := register(t, app, "Andi", "andi@example.com", "student", map[string]any{"class_id": classA})
	inB := register(t, app, "Citra", "citra@example.com", "student", map[string]any{"class_id": classB})

	quiz := createTest(t, app, teacher.Token, algebraQuiz(classA, nil))

	var listA, listB []testDTO.AvailableTest
	resp := doJSON(t, app, fiber.MethodGet, "/api/tests/student", inA.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	resp.decode(t, &listA)
	require.Len(t, listA, 1)
	assert.Equal(t, quiz.ID, listA[0].ID)
	assert.False(t, listA[0].Completed)

	resp = doJSON(t, app, fiber.MethodGet, "/api/test-assignments/available", inB.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	resp.decode(t, &listB)
	assert.Empty(t, listB)

	resp = doJSON(t, app, fiber.MethodGet, "/api/tests/student/"+quiz.ID.String(), inB.Token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)

	resp = doJSON(t, app, fiber.MethodPost, "/api/tests/"+quiz.ID.String()+"/submit", inB.Token, map[string]any{
		"answers": map[string]any{quiz.Questions[0].ID.String(): "4"},
	})
	assert.Equal(t, fiber.StatusForbidden, resp.Status)

	// assignment langsung ke siswa kelas lain
	resp = doJSON(t, app, fiber.MethodGet, "/api/auth/students", teacher.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	var roster []struct {
		ID     uuid.UUID `json:"id"`
		UserID uuid.UUID `json:"user_id"`
	}
	resp.decode(t, &roster)
	var citraStudentID uuid.UUID
	for _, r := range roster {
		if r.UserID == inB.ID {
			citraStudentID = r.ID
		}
	}
	require.NotEqual(t, uuid.Nil, citraStudentID)

	resp = doJSON(t, app, fiber.MethodPost, "/api/test-assignments", teacher.Token, map[string]any{
		"test_id": quiz.ID, "class_id": classB, "student_id": citraStudentID,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.Status, "both targets")

	resp = doJSON(t, app, fiber.MethodPost, "/api/test-assignments", teacher.Token, map[string]any{
		"test_id": quiz.ID, "student_id": citraStudentID,
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))

	resp = doJSON(t, app, fiber.MethodGet, "/api/tests/student", inB.Token, nil)
	resp.decode(t, &listB)
	require.Len(t, listB, 1)

	resp = doJSON(t, app, fiber.MethodGet, "/api/test-assignments/test/"+quiz.ID.String(), teacher.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	var assignments []testDTO.AssignmentResponse
	resp.decode(t, &assignments)
	require.Len(t, assignments, 2)

	var direct uuid.UUID
	for _, a := range assignments {
		if a.StudentID != nil {
			direct = a.ID
		}
	}
	require.NotEqual(t, uuid.Nil, direct)

	resp = doJSON(t, app, fiber.MethodDelete, "/api/test-assignments/"+direct.String(), inB.Token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.Status)
	resp = doJSON(t, app, fiber.MethodDelete, "/api/test-assignments/"+direct.String(), teacher.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	resp = doJSON(t, app, fiber.MethodDelete, "/api/test-assignments/"+direct.String(), teacher.Token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)

	resp = doJSON(t, app, fiber.MethodGet, "/api/tests/student", inB.Token, nil)
	listB = nil
	resp.decode(t, &listB)
	assert.Empty(t, listB)
}

func TestAlgebraQuizScenario(t *testing.T) {
	app := newTestApp(t)
	teacher := register(t, app, "Bu Sari", "sari@example.com", "teacher", nil)
	classID := createClass(t, app, teacher, "10A")
	student := register(t, app, "Andi", "andi@example.com", "student", map[string]any{"class_id": classID})

	quiz := createTest(t, app, teacher.Token, algebraQuiz(classID, nil))

	// tampilan siswa: tanpa is_correct
	resp := doJSON(t, app, fiber.MethodGet, "/api/tests/"+quiz.ID.String(), student.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	assert.NotContains(t, string(resp.Body), "is_correct")
	var delivered testDTO.TestResponse
	resp.decode(t, &delivered)
	require.Len(t, delivered.Questions, 2)

	resp = doJSON(t, app, fiber.MethodPost, "/api/tests/"+quiz.ID.String()+"/submit", student.Token, map[string]any{
		"answers": map[string]any{
			delivered.Questions[0].ID.String(): "4",
			delivered.Questions[1].ID.String(): []string{"2"},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))
	var result submissionDTO.SubmitTestResponse
	resp.decode(t, &result)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.TotalPossibleScore)
	assert.Equal(t, 50.0, result.Percentage)
	assert.Equal(t, 1, result.Submission.AttemptNumber)

	// attempts_limit=1: submit ulang menimpa baris yang sama
	resp = doJSON(t, app, fiber.MethodPost, "/api/tests/"+quiz.ID.String()+"/submit", student.Token, map[string]any{
		"answers": map[string]any{
			delivered.Questions[0].ID.String(): "4",
			delivered.Questions[1].ID.String(): []string{"3", "2"},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))
	var second submissionDTO.SubmitTestResponse
	resp.decode(t, &second)
	assert.Equal(t, 2, second.Score)
	assert.Equal(t, 100.0, second.Percentage)
	assert.Equal(t, result.Submission.ID, second.Submission.ID)

	resp = doJSON(t, app, fiber.MethodGet, "/api/results/student", student.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	var mine []submissionDTO.SubmissionResponse
	resp.decode(t, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "Algebra Quiz", mine[0].TestTitle)

	resp = doJSON(t, app, fiber.MethodGet, "/api/tests/submission/"+second.Submission.ID.String(), teacher.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	var detail submissionDTO.SubmissionDetailResponse
	resp.decode(t, &detail)
	assert.Len(t, detail.Questions, 2)
	assert.Len(t, detail.Grading, 2)

	resp = doJSON(t, app, fiber.MethodGet, "/api/results/class/"+classID.String(), teacher.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	var groups []submissionDTO.ClassResultGroup
	resp.decode(t, &groups)
	require.Len(t, groups, 1)
	assert.Equal(t, "Andi", groups[0].StudentName)
	assert.Equal(t, "Algebra Quiz", groups[0].TestTitle)

	resp = doJSON(t, app, fiber.MethodGet, "/api/results/class/"+uuid.NewString(), teacher.Token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)

	resp = doJSON(t, app, fiber.MethodGet, "/api/tests/results/"+student.ID.String(), teacher.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	var byStudent []submissionDTO.SubmissionResponse
	resp.decode(t, &byStudent)
	assert.Len(t, byStudent, 1)
}

func TestSubmit_AttemptsLimit(t *testing.T) {
	app := newTestApp(t)
	teacher := register(t, app, "Bu Sari", "sari@example.com", "teacher", nil)
	classID := createClass(t, app, teacher, "10A")
	student := register(t, app, "Andi", "andi@example.com", "student", map[string]any{"class_id": classID})

	limit := 2
	quiz := createTest(t, app, teacher.Token, algebraQuiz(classID, &limit))
	answers := map[string]any{"answers": map[string]any{quiz.Questions[0].ID.String(): "4"}}

	resp := doJSON(t, app, fiber.MethodPost, "/api/tests/"+quiz.ID.String()+"/submit", student.Token, map[string]any{"answers": map[string]any{}})
	assert.Equal(t, fiber.StatusBadRequest, resp.Status, "empty answers")

	for attempt := 1; attempt <= limit; attempt++ {
		resp = doJSON(t, app, fiber.MethodPost, "/api/tests/"+quiz.ID.String()+"/submit", student.Token, answers)
		require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))
		var out submissionDTO.SubmitTestResponse
		resp.decode(t, &out)
		assert.Equal(t, attempt, out.Submission.AttemptNumber)
	}

	resp = doJSON(t, app, fiber.MethodPost, "/api/tests/"+quiz.ID.String()+"/submit", student.Token, answers)
	assert.Equal(t, fiber.StatusConflict, resp.Status)

	resp = doJSON(t, app, fiber.MethodGet, "/api/tests/student", student.Token, nil)
	var available []testDTO.AvailableTest
	resp.decode(t, &available)
	assert.Empty(t, available, "exhausted tests are hidden")

	resp = doJSON(t, app, fiber.MethodGet, "/api/test-assignments/results", student.Token, nil)
	var mine []submissionDTO.SubmissionResponse
	resp.decode(t, &mine)
	assert.Len(t, mine, limit)
}

func TestParentResults(t *testing.T) {
	app := newTestApp(t)
	teacher := register(t, app, "Bu Sari", "sari@example.com", "teacher", nil)
	classID := createClass(t, app, teacher, "10A")
	student := register(t, app, "Andi", "andi@example.com", "student", map[string]any{"class_id": classID})
	quiz := createTest(t, app, teacher.Token, algebraQuiz(classID, nil))

	resp := doJSON(t, app, fiber.MethodGet, "/api/auth/me", student.Token, nil)
	var me struct {
		StudentID uuid.UUID `json:"student_id"`
	}
	resp.decode(t, &me)
	require.NotEqual(t, uuid.Nil, me.StudentID)

	parent := register(t, app, "Pak Joko", "joko@example.com", "parent", map[string]any{"children": []uuid.UUID{me.StudentID}})
	stranger := register(t, app, "Bu Rina", "rina@example.com", "parent", nil)

	resp = doJSON(t, app, fiber.MethodGet, "/api/students/children", parent.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	var children []struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
	}
	resp.decode(t, &children)
	require.Len(t, children, 1)
	assert.Equal(t, me.StudentID, children[0].ID)
	assert.Equal(t, "Andi", children[0].Name)

	resp = doJSON(t, app, fiber.MethodGet, "/api/students/children", student.Token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.Status)

	resp = doJSON(t, app, fiber.MethodPost, "/api/tests/"+quiz.ID.String()+"/submit", student.Token, map[string]any{
		"answers": map[string]any{quiz.Questions[0].ID.String(): "3"},
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))
	var submitted submissionDTO.SubmitTestResponse
	resp.decode(t, &submitted)

	resp = doJSON(t, app, fiber.MethodGet, "/api/results/parent", parent.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	var rows []submissionDTO.SubmissionResponse
	resp.decode(t, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Andi", rows[0].StudentName)
	assert.Equal(t, 0, rows[0].Score)

	resp = doJSON(t, app, fiber.MethodGet, "/api/results/parent", stranger.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, "[]", strings.TrimSpace(string(resp.Body)))

	resp = doJSON(t, app, fiber.MethodGet, "/api/tests/submission/"+submitted.Submission.ID.String(), stranger.Token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.Status)
	resp = doJSON(t, app, fiber.MethodGet, "/api/tests/submission/"+submitted.Submission.ID.String(), parent.Token, nil)
	assert.Equal(t, fiber.StatusOK, resp.Status)
}

func TestCreateTest_MultipartWithImage(t *testing.T) {
	uploadDir := t.TempDir()
	app := newTestAppWithUploads(uploadDir)
	teacher := register(t, app, "Bu Sari", "sari@example.com", "teacher", nil)
	classID := createClass(t, app, teacher, "10A")

	img := image.NewRGBA(image.Rect(0, 0, 2000, 100))
	for x := 0; x < 2000; x++ {
		img.Set(x, 50, color.RGBA{R: 200, A: 255})
	}
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("title", "Geometri"))
	require.NoError(t, w.WriteField("classId", classID.String()))
	require.NoError(t, w.WriteField("attempts_limit", "0"))
	require.NoError(t, w.WriteField("questions", `[{"text":"Bentuk apa ini?","type":"single","options":["garis","lingkaran"],"correct_answer":"garis"}]`))
	fw, err := w.CreateFormFile("images[0]", "garis.png")
	require.NoError(t, err)
	_, err = fw.Write(pngBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/api/tests", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp := do(t, app, req, teacher.Token)
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))

	var created testDTO.TestResponse
	resp.decode(t, &created)
	assert.Equal(t, 0, created.AttemptsLimit)
	require.Len(t, created.Questions, 1)
	require.NotNil(t, created.Questions[0].ImageURL)
	url := *created.Questions[0].ImageURL
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".webp"))

	stored := filepath.Join(uploadDir, strings.TrimPrefix(url, "/uploads/"))
	_, err = os.Stat(stored)
	require.NoError(t, err)

	resp = doJSON(t, app, fiber.MethodDelete, "/api/tests/"+created.ID.String(), teacher.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err), "image removed with the test")
}

func TestEditTest_MovesClassAssignment(t *testing.T) {
	app := newTestApp(t)
	teacher := register(t, app, "Bu Sari", "sari@example.com", "teacher", nil)
	classA := createClass(t, app, teacher, "10A")
	classB := createClass(t, app, teacher, "10B")
	inA := register(t, app, "Andi", "andi@example.com", "student", map[string]any{"class_id": classA})
	inB := register(t, app, "Citra", "citra@example.com", "student", map[string]any{"class_id": classB})

	quiz := createTest(t, app, teacher.Token, algebraQuiz(classA, nil))

	resp := doJSON(t, app, fiber.MethodPut, "/api/tests/edit/"+quiz.ID.String(), teacher.Token, algebraQuiz(classB, nil))
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	var moved testDTO.TestResponse
	resp.decode(t, &moved)
	assert.Equal(t, classB, moved.ClassID)

	var listA, listB []testDTO.AvailableTest
	resp = doJSON(t, app, fiber.MethodGet, "/api/tests/student", inA.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	resp.decode(t, &listA)
	assert.Empty(t, listA, "old class no longer sees the test")

	resp = doJSON(t, app, fiber.MethodGet, "/api/tests/student", inB.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	resp.decode(t, &listB)
	require.Len(t, listB, 1)
	assert.Equal(t, quiz.ID, listB[0].ID)

	answers := map[string]any{"answers": map[string]any{moved.Questions[0].ID.String(): "4"}}
	resp = doJSON(t, app, fiber.MethodPost, "/api/tests/"+quiz.ID.String()+"/submit", inA.Token, answers)
	assert.Equal(t, fiber.StatusForbidden, resp.Status)
	resp = doJSON(t, app, fiber.MethodPost, "/api/tests/"+quiz.ID.String()+"/submit", inB.Token, answers)
	assert.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))

	// edit tanpa pindah kelas tidak menggandakan assignment
	resp = doJSON(t, app, fiber.MethodPut, "/api/tests/edit/"+quiz.ID.String(), teacher.Token, algebraQuiz(classB, nil))
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))

	resp = doJSON(t, app, fiber.MethodGet, "/api/test-assignments/test/"+quiz.ID.String(), teacher.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	var assignments []testDTO.AssignmentResponse
	resp.decode(t, &assignments)
	require.Len(t, assignments, 1)
	require.NotNil(t, assignments[0].ClassID)
	assert.Equal(t, classB, *assignments[0].ClassID)
}

func TestSubmissionDetail_KeepsGradingAfterEdit(t *testing.T) {
	app := newTestApp(t)
	teacher := register(t, app, "Bu Sari", "sari@example.com", "teacher", nil)
	classID := createClass(t, app, teacher, "10A")
	student := register(t, app, "Andi", "andi@example.com", "student", map[string]any{"class_id": classID})
	quiz := createTest(t, app, teacher.Token, algebraQuiz(classID, nil))

	resp := doJSON(t, app, fiber.MethodPost, "/api/tests/"+quiz.ID.String()+"/submit", student.Token, map[string]any{
		"answers": map[string]any{
			quiz.Questions[0].ID.String(): "4",
			quiz.Questions[1].ID.String(): []string{"3", "2"},
		},
	})
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))
	var submitted submissionDTO.SubmitTestResponse
	resp.decode(t, &submitted)
	require.Equal(t, 2, submitted.Score)

	// soal diganti penuh: id soal berubah
	resp = doJSON(t, app, fiber.MethodPut, "/api/tests/edit/"+quiz.ID.String(), teacher.Token, algebraQuiz(classID, nil))
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	var edited testDTO.TestResponse
	resp.decode(t, &edited)
	require.NotEqual(t, quiz.Questions[0].ID, edited.Questions[0].ID)

	resp = doJSON(t, app, fiber.MethodGet, "/api/tests/submission/"+submitted.Submission.ID.String(), student.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	var detail submissionDTO.SubmissionDetailResponse
	resp.decode(t, &detail)
	assert.Equal(t, 2, detail.Score)
	require.Len(t, detail.Grading, 2)
	for _, g := range detail.Grading {
		assert.True(t, g.Correct, g.QuestionText)
		assert.Equal(t, "correct", g.Reason)
	}
	assert.Equal(t, quiz.Questions[0].ID, detail.Grading[0].QuestionID)
	assert.Equal(t, "2 + 2 = ?", detail.Grading[0].QuestionText)
	assert.Equal(t, []string{"2", "3"}, detail.Grading[1].CorrectAnswers)
}

// imageTestRequest: POST /api/tests multipart dengan satu gambar untuk soal 0.
func imageTestRequest(t *testing.T, classID uuid.UUID) *http.Request {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	img.Set(10, 10, color.RGBA{B: 200, A: 255})
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("title", "Geometri"))
	require.NoError(t, w.WriteField("class_id", classID.String()))
	require.NoError(t, w.WriteField("questions", `[{"text":"Bentuk apa ini?","type":"single","options":["titik","garis"],"correct_answer":"titik"}]`))
	fw, err := w.CreateFormFile("images[0]", "titik.png")
	require.NoError(t, err)
	_, err = fw.Write(pngBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/api/tests", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func imageQuestion(url string) map[string]any {
	return map[string]any{
		"title": "Geometri",
		"questions": []map[string]any{{
			"question_text": "Bentuk apa ini?", "type": "single",
			"options": []string{"titik", "garis"}, "correct_answer": "titik",
			"image_url": url,
		}},
	}
}

func TestImageURL_MustBelongToTest(t *testing.T) {
	uploadDir := t.TempDir()
	app := newTestAppWithUploads(uploadDir)
	sari := register(t, app, "Bu Sari", "sari@example.com", "teacher", nil)
	budi := register(t, app, "Pak Budi", "budi@example.com", "teacher", nil)
	classSari := createClass(t, app, sari, "10A")
	classBudi := createClass(t, app, budi, "11A")

	resp := do(t, app, imageTestRequest(t, classSari), sari.Token)
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))
	var owned testDTO.TestResponse
	resp.decode(t, &owned)
	require.NotNil(t, owned.Questions[0].ImageURL)
	url := *owned.Questions[0].ImageURL
	stored := filepath.Join(uploadDir, strings.TrimPrefix(url, "/uploads/"))

	// guru lain tidak bisa mengklaim file upload milik test lain
	body := imageQuestion(url)
	body["class_id"] = classBudi.String()
	resp = doJSON(t, app, fiber.MethodPost, "/api/tests", budi.Token, body)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status, string(resp.Body))

	plain := createTest(t, app, budi.Token, algebraQuiz(classBudi, nil))
	resp = doJSON(t, app, fiber.MethodPut, "/api/tests/edit/"+plain.ID.String(), budi.Token, body)
	assert.Equal(t, fiber.StatusBadRequest, resp.Status, string(resp.Body))

	resp = doJSON(t, app, fiber.MethodDelete, "/api/tests/"+plain.ID.String(), budi.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.Status)
	_, err := os.Stat(stored)
	require.NoError(t, err, "other teacher's upload untouched")

	// URL eksternal boleh, dan tidak pernah dihapus dari disk
	external := imageQuestion("https://cdn.example.com/titik.png")
	external["class_id"] = classBudi.String()
	resp = doJSON(t, app, fiber.MethodPost, "/api/tests", budi.Token, external)
	assert.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))

	// pemilik boleh mempertahankan gambarnya sendiri saat edit
	keep := imageQuestion(url)
	keep["class_id"] = classSari.String()
	keep["title"] = "Geometri v2"
	resp = doJSON(t, app, fiber.MethodPut, "/api/tests/edit/"+owned.ID.String(), sari.Token, keep)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.Body))
	var edited testDTO.TestResponse
	resp.decode(t, &edited)
	require.NotNil(t, edited.Questions[0].ImageURL)
	assert.Equal(t, url, *edited.Questions[0].ImageURL)
	_, err = os.Stat(stored)
	assert.NoError(t, err)
}
