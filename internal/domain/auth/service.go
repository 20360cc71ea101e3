package auth

import (
	"context"

	"github.com/apmb-hris/hrms-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error

	// Register creates the account for a pending invitation and logs it in
	Register(ctx context.Context, req RegisterRequest, session SessionTrackingRequest) (TokenResponse, error)

	Me(ctx context.Context, actor user.Actor) (user.UserResponse, error)
	ChangePassword(ctx context.Context, actor user.Actor, req ChangePasswordRequest) error
}
