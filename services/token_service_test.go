package services

import (
	"testing"
	"time"

	"heritage-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	user := &models.User{ID: 42, Username: "admin", Role: models.RoleAdmin}

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestTokenValidation(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	user := &models.User{ID: 1, Username: "customer1", Role: models.RoleUser}

	t.Run("rejects a token signed with another key", func(t *testing.T) {
		otherSvc := NewTokenService("other-secret", time.Hour)
		token, err := otherSvc.GenerateToken(user)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		expiredSvc := NewTokenService("test-secret", -time.Minute)
		token, err := expiredSvc.GenerateToken(user)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}
