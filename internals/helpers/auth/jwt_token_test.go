package helper

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestIssueAndParseToken(t *testing.T) {
	classID := uuid.New()
	id := Identity{UserID: uuid.New(), Role: "student", ClassID: &classID, Name: "Andi"}

	raw, err := IssueToken(testSecret, id, time.Hour, time.Now())
	require.NoError(t, err)

	got, err := ParseToken(testSecret, raw)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParseToken_Rejects(t *testing.T) {
	id := Identity{UserID: uuid.New(), Role: "teacher"}

	expired, err := IssueToken(testSecret, id, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = ParseToken(testSecret, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	valid, err := IssueToken(testSecret, id, time.Hour, time.Now())
	require.NoError(t, err)
	_, err = ParseToken("other-secret", valid)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken(testSecret, "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{ID: id.UserID, Role: id.Role}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = ParseToken(testSecret, noExp)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noRole, err := IssueToken(testSecret, Identity{UserID: uuid.New()}, time.Hour, time.Now())
	require.NoError(t, err)
	_, err = ParseToken(testSecret, noRole)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueToken_MissingSecret(t *testing.T) {
	_, err := IssueToken(" ", Identity{UserID: uuid.New(), Role: "teacher"}, time.Hour, time.Now())
	assert.ErrorIs(t, err, ErrMissingSecret)
}
