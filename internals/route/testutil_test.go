package routes

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"smarttester_backend/internals/databases/memdb"
	authDTO "smarttester_backend/internals/features/users/auth/dto"
)

const testJWTSecret = "route-test-secret"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return newTestAppWithUploads(t.TempDir())
}

func newTestAppWithUploads(uploadDir string) *fiber.App {
	return NewApp(NewMemoryRepositories(memdb.Open()), AppOptions{
		Options: Options{
			JWTSecret: testJWTSecret,
			JWTTTL:    time.Hour,
			UploadDir: uploadDir,
		},
		Quiet: true,
	})
}

type apiResponse struct {
	Status int
	Body   []byte
}

func (r apiResponse) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, sonic.Unmarshal(r.Body, v), string(r.Body))
}

func do(t *testing.T, app *fiber.App, req *http.Request, token string) apiResponse {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return apiResponse{Status: resp.StatusCode, Body: body}
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) apiResponse {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := sonic.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return do(t, app, req, token)
}

type account struct {
	ID    uuid.UUID
	Token string
}

func register(t *testing.T, app *fiber.App, name, email, role string, extra map[string]any) account {
	t.Helper()
	body := map[string]any{"name": name, "email": email, "password": "secret123", "role": role}
	for k, v := range extra {
		body[k] = v
	}
	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))

	var out authDTO.RegisterResponse
	resp.decode(t, &out)
	require.NotEmpty(t, out.Token)
	return account{ID: out.ID, Token: out.Token}
}

func createClass(t *testing.T, app *fiber.App, teacher account, name string) uuid.UUID {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/api/classes", teacher.Token, map[string]any{"name": name})
	require.Equal(t, fiber.StatusCreated, resp.Status, string(resp.Body))
	var out struct {
		ID uuid.UUID `json:"id"`
	}
	resp.decode(t, &out)
	return out.ID
}

// algebraQuiz: soal 1 single (jawaban "4"), soal 2 multiple (jawaban "2","3").
func algebraQuiz(classID uuid.UUID, attempts *int) map[string]any {
	body := map[string]any{
		"title":    "Algebra Quiz",
		"class_id": classID.String(),
		"questions": []map[string]any{
			{
				"question_text": "2 + 2 = ?",
				"type":          "single",
				"options": []map[string]any{
					{"text": "3", "is_correct": false},
					{"text": "4", "is_correct": true},
				},
			},
			{
				"question_text":   "Pilih bilangan prima",
				"type":            "multiple",
				"options":         []string{"2", "3", "4"},
				"correct_answers": []string{"2", "3"},
			},
		},
	}
	if attempts != nil {
		body["attempts_limit"] = *attempts
	}
	return body
}
