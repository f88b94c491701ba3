package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyToken(t *testing.T) {
	v := NewJWTVerifier("secret")

	token, err := v.IssueToken(42, time.Minute)
	require.NoError(t, err)

	userID, err := v.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := NewJWTVerifier("secret").IssueToken(42, time.Minute)
	require.NoError(t, err)

	_, err = NewJWTVerifier("other").VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenExpired(t *testing.T) {
	v := NewJWTVerifier("secret")
	token, err := v.IssueToken(42, -time.Minute)
	require.NoError(t, err)

	_, err = v.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenMissingUserID(t *testing.T) {
	v := NewJWTVerifier("secret")
	token, err := v.IssueToken(0, time.Minute)
	require.NoError(t, err)

	_, err = v.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenGarbage(t *testing.T) {
	_, err := NewJWTVerifier("secret").VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
