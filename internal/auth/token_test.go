package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mpetrov/aviabooking/internal/domain"
)

func TestTokenManager_IssueAndVerify(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	token, expiresAt, err := manager.Issue(42, domain.RoleAdmin)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := manager.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestTokenManager_Verify_WrongSecret(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	token, _, err := manager.Issue(42, domain.RoleUser)
	assert.NoError(t, err)

	claims, err := other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestTokenManager_Verify_Expired(t *testing.T) {
	manager := NewTokenManager("test-secret", -time.Minute)

	token, _, err := manager.Issue(42, domain.RoleUser)
	assert.NoError(t, err)

	claims, err := manager.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestTokenManager_Verify_Garbage(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	claims, err := manager.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("password123", 4)
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, VerifyPassword(hash, "password123"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
