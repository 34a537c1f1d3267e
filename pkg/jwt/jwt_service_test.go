package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebook-backend/domain"
)

func TestTokenUserRoundTrip(t *testing.T) {
	service := NewJWTService()

	userID := uuid.NewString()
	token := service.GenerateTokenUser(userID, domain.RoleUser)
	require.NotEmpty(t, token)

	gotID, gotRole, err := service.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, domain.RoleUser, gotRole)
}

func TestTokenUserInvalid(t *testing.T) {
	service := NewJWTService()

	_, _, err := service.GetUserIDByToken("not.a.token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	token := service.GenerateTokenUser(uuid.NewString(), domain.RoleUser)
	_, _, err = service.GetUserIDByToken(token + "tampered")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestTokenResetPasswordRoundTrip(t *testing.T) {
	service := NewJWTService()

	userID := uuid.NewString()
	token, err := service.GenerateTokenResetPassword(
		map[string]any{"user_id": userID}, time.Minute*30)
	require.NoError(t, err)

	claims, err := service.ValidateTokenResetPassword(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims["user_id"])
}

func TestTokenResetPasswordExpired(t *testing.T) {
	service := NewJWTService()

	token, err := service.GenerateTokenResetPassword(
		map[string]any{"user_id": uuid.NewString()}, -time.Minute)
	require.NoError(t, err)

	_, err = service.ValidateTokenResetPassword(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}
