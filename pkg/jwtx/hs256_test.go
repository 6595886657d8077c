package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewHS256_RequiresSecret(t *testing.T) {
	_, err := NewHS256(nil, "issuer")
	require.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewHS256([]byte{}, "issuer")
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestHS256_SignAndVerify(t *testing.T) {
	h, err := NewHS256([]byte("test-secret"), "minishop-test")
	require.NoError(t, err)

	claims := NewAccessClaims("user-1", "alice", "minishop-test", time.Hour, time.Now())
	raw, err := h.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	got, err := h.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, "minishop-test", got.Issuer)
	require.NotEmpty(t, got.ID, "jti should be populated")
}

func TestHS256_Verify_Failures(t *testing.T) {
	h, err := NewHS256([]byte("test-secret"), "minishop-test")
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		_, err := h.Verify("not.a.jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewHS256([]byte("different-secret"), "minishop-test")
		require.NoError(t, err)

		raw, err := other.Sign(NewAccessClaims("user-1", "alice", "minishop-test", time.Hour, time.Now()))
		require.NoError(t, err)

		_, err = h.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		raw, err := h.Sign(NewAccessClaims("user-1", "alice", "someone-else", time.Hour, time.Now()))
		require.NoError(t, err)

		_, err = h.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		raw, err := h.Sign(NewAccessClaims("user-1", "alice", "minishop-test", time.Hour, time.Now().Add(-2*time.Hour)))
		require.NoError(t, err)

		_, err = h.Verify(raw)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewJTI_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 10 {
		jti := NewJTI()
		require.NotEmpty(t, jti)
		require.False(t, seen[jti], "jti values should not repeat")
		seen[jti] = true
	}
}
