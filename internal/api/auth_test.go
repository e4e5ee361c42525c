package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserId(t *testing.T) {
	tcases := []struct {
		name     string
		ctx      context.Context
		userId   int
		expected bool
	}{
		{
			name:     "no user ID",
			ctx:      context.Background(),
			expected: false,
		},
		{
			name:     "user ID set",
			ctx:      WithUserId(context.Background(), 42),
			userId:   42,
			expected: true,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			userId, ok := UserId(tc.ctx)
			assert.Equal(t, tc.expected, ok, "expected UserId to return %v", tc.expected)
			assert.Equal(t, tc.userId, userId, "expected UserId to return %d", tc.userId)
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := hashPassword("password")
	assert.NoError(t, err, "expected no error hashing password")
	assert.NotEqual(t, "password", hash, "expected hash to differ from plaintext")

	assert.True(t, verifyPassword(hash, "password"), "expected matching password to verify")
	assert.False(t, verifyPassword(hash, "wrong"), "expected wrong password to fail")
}

func TestJwtRoundTrip(t *testing.T) {
	app := &App{signingKey: []byte("test-signing-key")}

	token, err := app.createJwtForSession(42, time.Hour)
	assert.NoError(t, err, "expected no error creating token")

	userId, err := app.extractUserIdFromToken(token)
	assert.NoError(t, err, "expected no error extracting user id")
	assert.Equal(t, 42, userId)
}

func TestExtractUserIdFromToken_Invalid(t *testing.T) {
	app := &App{signingKey: []byte("test-signing-key")}

	t.Run("garbage token", func(t *testing.T) {
		_, err := app.extractUserIdFromToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := &App{signingKey: []byte("other-key")}
		token, err := other.createJwtForSession(42, time.Hour)
		assert.NoError(t, err)

		_, err = app.extractUserIdFromToken(token)
		assert.Error(t, err, "expected token signed with another key to be rejected")
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := app.createJwtForSession(42, -time.Hour)
		assert.NoError(t, err)

		_, err = app.extractUserIdFromToken(token)
		assert.Error(t, err, "expected expired token to be rejected")
	})
}

func TestCreateJwtCookie(t *testing.T) {
	cookie := createJwtCookie("token-value", time.Hour)
	assert.Equal(t, tokenCookieKey, cookie.Name)
	assert.Equal(t, "token-value", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly, "expected cookie to be http-only")
	assert.True(t, cookie.Expires.After(time.Now()), "expected cookie to expire in the future")
}
