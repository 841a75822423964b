package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	token, err := Sign("user-42", time.Hour, []byte("secret"))
	require.NoError(t, err)

	claims, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestExpired(t *testing.T) {
	fresh, err := Sign("u", time.Hour, []byte("k"))
	require.NoError(t, err)
	stale, err := Sign("u", -time.Minute, []byte("k"))
	require.NoError(t, err)

	assert.False(t, Expired(fresh, 30*time.Second))
	assert.True(t, Expired(fresh, 2*time.Hour))
	assert.True(t, Expired(stale, 0))
	assert.True(t, Expired("not-a-token", 0))
}
