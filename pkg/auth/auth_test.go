package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueVerify(t *testing.T) {
	m := NewTokenManager("0123456789abcdef0123", time.Hour)

	token, expiresAt, err := m.Issue("u1", "driver", "d@example.com", "665f1c2b9a1e4c0012345678")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Verify("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "driver", claims.Role)
	assert.Equal(t, "665f1c2b9a1e4c0012345678", claims.DriverID)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("0123456789abcdef0123", time.Hour)
	other := NewTokenManager("another-secret-entirely", time.Hour)

	token, _, err := other.Issue("u1", "admin", "", "")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenManager("0123456789abcdef0123", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue("u1", "client", "", "")
	require.NoError(t, err)
	_, err = m.Verify(old)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, CheckPassword(hash, "correct horse"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong horse"), ErrPasswordMismatch)
}

func TestClaimsContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	ctx := WithClaims(context.Background(), &Claims{UserID: "u1", Role: "admin"})
	claims := FromContext(ctx)
	require.NotNil(t, claims)
	assert.True(t, claims.HasRole("driver", "admin"))
	assert.False(t, claims.HasRole("client"))

	var none *Claims
	assert.False(t, none.HasRole("admin"))
}
