package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "conduit")
	tok, exp, err := m.Generate(42, "sid-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "conduit", claims.Issuer)
}

func TestJWTRejectsForeignSecretAndExpiry(t *testing.T) {
	tok, _, err := NewJWTManager("other", time.Hour, "").Generate(1, "s")
	require.NoError(t, err)
	_, err = NewJWTManager("secret", time.Hour, "").Parse(tok)
	assert.Error(t, err)

	expired, _, err := NewJWTManager("secret", -time.Minute, "").Generate(1, "s")
	require.NoError(t, err)
	_, err = NewJWTManager("secret", time.Hour, "").Parse(expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
