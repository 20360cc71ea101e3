package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewJWTService("test-secret-key-for-jwt", "1h", "24h")
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_RejectsBadDuration(t *testing.T) {
	_, err := NewJWTService("secret", "soon", "24h")
	assert.Error(t, err)
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := newTestService(t)
	dept := "dept-ops"

	token, expiresAt, err := svc.GenerateAccessToken(user.User{
		ID:           "user-1",
		Email:        "ravi@apmaritime.in",
		Role:         user.RoleDepartmentAdmin,
		DepartmentID: &dept,
	})
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "ravi@apmaritime.in", claims["email"])
	assert.Equal(t, "department_admin", claims["role"])
	assert.Equal(t, "dept-ops", claims["department_id"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestParseRefreshToken(t *testing.T) {
	svc := newTestService(t)

	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	userID, err := svc.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	access, _, err := svc.GenerateAccessToken(user.User{ID: "user-1", Role: user.RoleUser})
	require.NoError(t, err)
	_, err = svc.ParseRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = svc.ParseRefreshToken("not-a-token")
	assert.Error(t, err)

	other, err := NewJWTService("another-secret", "1h", "24h")
	require.NoError(t, err)
	_, err = other.ParseRefreshToken(refresh)
	assert.Error(t, err, "tokens signed with another key must be rejected")
}

func TestGenerateRefreshToken_Unique(t *testing.T) {
	svc := newTestService(t)

	a, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	b, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestRefreshTokenCookies(t *testing.T) {
	svc := newTestService(t)

	cookie := svc.RefreshTokenCookie("tok", time.Now().Add(time.Hour).Unix())
	assert.Equal(t, RefreshCookieName(), cookie.Name)
	assert.Equal(t, "tok", cookie.Value)
	assert.True(t, cookie.HttpOnly)

	cleared := svc.ClearRefreshTokenCookie()
	assert.Equal(t, RefreshCookieName(), cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)
}
