package utils

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	id := uuid.New()
	token, err := GenerateJWT(id, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, id.String(), claims.Subject)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)
}

func TestJWTRejectsExpired(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTRejectsMissingUser(t *testing.T) {
	token, err := GenerateJWT(uuid.Nil, "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}

func TestDisabledCacheIsAlwaysEmpty(t *testing.T) {
	ctx := context.Background()
	for _, c := range []*Cache{nil, NewCache(nil, time.Minute)} {
		var out map[string]int
		found, err := c.Get(ctx, "k", &out)
		assert.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}))
		assert.NoError(t, c.Delete(ctx, "k"))
		assert.NoError(t, c.DeletePrefix(ctx, "k"))
	}
}
