package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16})

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)

	ok, err := h.Verify("correct horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong horse", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Verify("x", []byte("plaintext"))
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	user := models.User{ID: "u1", Email: "a@b.com", FirstName: "Ama"}
	now := time.Now()

	token, err := IssueAccessToken("secret", user, "s1", time.Hour, now)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "Ama", claims.FirstName)
	assert.Equal(t, "s1", claims.ID)

	_, err = ParseAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	token, err := IssueAccessToken("secret", models.User{ID: "u1"}, "s1", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiry(t *testing.T) {
	issued := time.Now().Truncate(time.Second)
	token, err := IssueAccessToken("secret", models.User{ID: "u1"}, "s1", time.Hour, issued)
	require.NoError(t, err)

	exp, ok := TokenExpiry(token)
	require.True(t, ok)
	assert.True(t, exp.Equal(issued.Add(time.Hour)))

	_, ok = TokenExpiry("opaque-session-token")
	assert.False(t, ok)
}
