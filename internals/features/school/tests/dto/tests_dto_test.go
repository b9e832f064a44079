package dto

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttester_backend/internals/constants"
)

func decodeRequest(t *testing.T, body string) UpsertTestRequest {
	t.Helper()
	var req UpsertTestRequest
	require.NoError(t, sonic.UnmarshalString(body, &req))
	req.Normalize()
	return req
}

func TestUpsertTestRequest_ObjectOptions(t *testing.T) {
	classID := uuid.New()
	req := decodeRequest(t, `{
		"title": "  Algebra Quiz ",
		"class_id": "`+classID.String()+`",
		"questions": [{"text": "2+2?", "type": "Single",
			"options": [{"text": "3"}, {"text": "4", "is_correct": true}]}]
	}`)

	require.NoError(t, validator.New().Struct(&req))
	require.NoError(t, req.ValidateShape())
	assert.Equal(t, "Algebra Quiz", req.Title)
	assert.Equal(t, "2+2?", req.Questions[0].QuestionText)
	assert.Equal(t, constants.QuestionTypeSingle, req.Questions[0].Type)

	m, err := req.ToModel(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, classID, m.TestClassID)
	assert.Equal(t, constants.DefaultAttemptsLimit, m.TestAttemptsLimit)
	require.Len(t, m.Questions[0].Options, 2)
	assert.True(t, m.Questions[0].Options[1].OptionIsCorrect)
	assert.Equal(t, 1, m.Questions[0].Options[1].OptionPosition)
}

func TestUpsertTestRequest_LegacyShape(t *testing.T) {
	req := decodeRequest(t, `{
		"title": "Legacy",
		"classId": "`+uuid.NewString()+`",
		"attempts_limit": 3,
		"questions": [
			{"question_text": "Ibu kota?", "type": "single", "options": ["Jakarta", "Bandung"], "correct_answer": "Jakarta"},
			{"question_text": "Prima?", "type": "multiple", "options": ["2", "3", "4"], "correct_answers": ["2", "3"]}
		]
	}`)

	require.NoError(t, req.ValidateShape())
	assert.True(t, req.Questions[0].Options[0].IsCorrect)
	assert.False(t, req.Questions[0].Options[1].IsCorrect)
	assert.True(t, req.Questions[1].Options[0].IsCorrect)
	assert.True(t, req.Questions[1].Options[1].IsCorrect)
	assert.False(t, req.Questions[1].Options[2].IsCorrect)

	m, err := req.ToModel(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 3, m.TestAttemptsLimit)
}

func TestUpsertTestRequest_ValidateShape(t *testing.T) {
	classID := uuid.NewString()
	tests := []struct {
		name string
		body string
	}{
		{name: "missing class", body: `{"title":"x","questions":[{"text":"q","type":"single","options":[{"text":"a","is_correct":true},{"text":"b"}]}]}`},
		{name: "bad class id", body: `{"title":"x","class_id":"nope","questions":[{"text":"q","type":"single","options":[{"text":"a","is_correct":true},{"text":"b"}]}]}`},
		{name: "single option", body: `{"title":"x","class_id":"` + classID + `","questions":[{"text":"q","type":"single","options":[{"text":"a","is_correct":true}]}]}`},
		{name: "duplicate option", body: `{"title":"x","class_id":"` + classID + `","questions":[{"text":"q","type":"single","options":[{"text":"a","is_correct":true},{"text":"a"}]}]}`},
		{name: "single with two correct", body: `{"title":"x","class_id":"` + classID + `","questions":[{"text":"q","type":"single","options":[{"text":"a","is_correct":true},{"text":"b","is_correct":true}]}]}`},
		{name: "multiple without correct", body: `{"title":"x","class_id":"` + classID + `","questions":[{"text":"q","type":"multiple","options":[{"text":"a"},{"text":"b"}]}]}`},
		{name: "unknown type", body: `{"title":"x","class_id":"` + classID + `","questions":[{"text":"q","type":"essay","options":[{"text":"a","is_correct":true},{"text":"b"}]}]}`},
		{name: "empty question text", body: `{"title":"x","class_id":"` + classID + `","questions":[{"text":"  ","type":"single","options":[{"text":"a","is_correct":true},{"text":"b"}]}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := decodeRequest(t, tc.body)
			assert.Error(t, req.ValidateShape())
		})
	}
}

func TestUpsertTestRequest_ValidatorTags(t *testing.T) {
	v := validator.New()

	req := decodeRequest(t, `{"title":"","class_id":"`+uuid.NewString()+`","questions":[]}`)
	assert.Error(t, v.Struct(&req))

	neg := -1
	req = decodeRequest(t, `{"title":"t","class_id":"`+uuid.NewString()+`","questions":[{"text":"q","type":"single","options":[{"text":"a","is_correct":true},{"text":"b"}]}]}`)
	req.AttemptsLimit = &neg
	assert.Error(t, v.Struct(&req))
}

func TestParseMultipartFields(t *testing.T) {
	qs, err := ParseQuestionsField(`[{"text":"q","type":"single","options":["a","b"],"correct_answer":"a"}]`)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "a", qs[0].Options[0].Text)

	_, err = ParseQuestionsField(`{not json`)
	assert.Error(t, err)

	n, err := ParseAttemptsField(" 2 ")
	require.NoError(t, err)
	assert.Equal(t, 2, *n)

	n, err = ParseAttemptsField("")
	require.NoError(t, err)
	assert.Nil(t, n)

	_, err = ParseAttemptsField("dua")
	assert.Error(t, err)
}

func TestCreateAssignmentRequest_ValidateShape(t *testing.T) {
	classID := uuid.New()
	studentID := uuid.New()

	assert.NoError(t, (&CreateAssignmentRequest{TestID: uuid.New(), ClassID: &classID}).ValidateShape())
	assert.NoError(t, (&CreateAssignmentRequest{TestID: uuid.New(), StudentID: &studentID}).ValidateShape())
	assert.Error(t, (&CreateAssignmentRequest{TestID: uuid.New()}).ValidateShape())
	assert.Error(t, (&CreateAssignmentRequest{TestID: uuid.New(), ClassID: &classID, StudentID: &studentID}).ValidateShape())
}
