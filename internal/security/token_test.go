package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-ledger-backend/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret")

	baseID := int64(3)
	actor := &domain.Actor{
		UserID: 42,
		Role:   domain.RoleBaseCommander,
		BaseID: &baseID,
		Active: true,
	}

	token, err := tm.GenerateToken(actor, time.Hour)
	require.NoError(t, err)

	got, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, got.UserID)
	assert.Equal(t, actor.Role, got.Role)
	require.NotNil(t, got.BaseID)
	assert.Equal(t, baseID, *got.BaseID)
	assert.True(t, got.Active)
}

func TestTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret")
	other := NewTokenManager("other-secret")

	token, err := tm.GenerateToken(&domain.Actor{UserID: 1, Role: domain.RoleAdmin, Active: true}, time.Hour)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("test-secret")

	token, err := tm.GenerateToken(&domain.Actor{UserID: 1, Role: domain.RoleAdmin, Active: true}, -time.Minute)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret")

	_, err := tm.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
