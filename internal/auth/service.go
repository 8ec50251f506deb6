// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/acadmix/server/internal/config"
	"github.com/acadmix/server/internal/core"
	"github.com/acadmix/server/internal/notify"
)

// UserInfo is the account snapshot the auth flows operate on. It is always
// freshly loaded from storage, never reconstructed from token claims.
type UserInfo struct {
	ID              string
	ProfileID       string
	Email           string
	Role            string
	PasswordHash    string
	IsBlocked       bool
	IsVerified      bool
	IsResetVerified bool
	VerifyCode      *int
	ResetCode       *int
	CodeExpireIn    *time.Time
}

func (u *UserInfo) codeExpired(now time.Time) bool {
	return u.CodeExpireIn == nil || u.CodeExpireIn.Before(now)
}

// UserProvider is the slice of the account store the auth flows need.
// Implemented by the user service.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetVerifyCode(ctx context.Context, email string, code int, expires time.Time) error
	SetResetCode(ctx context.Context, email string, code int, expires time.Time) error
	MarkResetVerified(ctx context.Context, email string) error
}

type Service struct {
	users    UserProvider
	tokens   *TokenManager
	mailer   notify.Mailer
	security config.SecurityConfig
	logger   *slog.Logger
}

func NewService(
	users UserProvider,
	tokens *TokenManager,
	mailer notify.Mailer,
	security config.SecurityConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		security: security,
		logger:   logger,
	}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenPairResponse, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, core.NotFoundError("user not found")
	}
	if u.IsBlocked {
		return nil, core.ForbiddenError("this user is blocked")
	}

	ok, err := core.VerifyPassword(req.Password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, core.ForbiddenError("password does not match")
	}

	return s.issueTokenPair(u)
}

// RefreshAccessToken mints a new access token from a valid refresh token.
// Role and block status come from a fresh account read, so a role change or
// block after the refresh token was issued takes effect immediately.
func (s *Service) RefreshAccessToken(ctx context.Context, req RefreshTokenRequest) (*AccessTokenResponse, error) {
	claims, err := s.tokens.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, core.NotFoundError("user not found")
	}
	if u.IsBlocked {
		return nil, core.ForbiddenError("this user is blocked")
	}

	accessToken, err := s.tokens.CreateAccessToken(claimsFor(u))
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}
	return &AccessTokenResponse{AccessToken: accessToken}, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) (*TokenPairResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, core.NotFoundError("user not found")
	}

	ok, err := core.VerifyPassword(req.OldPassword, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, core.ForbiddenError("old password does not match")
	}

	hash, err := core.HashPassword(req.NewPassword, s.security.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	return s.issueTokenPair(u)
}

// ForgotPassword stores a fresh reset code and emails it. The send is
// awaited: a delivery failure surfaces to the caller instead of leaving them
// waiting for a code that never went out.
func (s *Service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	email := normalizeEmail(req.Email)
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return core.NotFoundError("user not found")
	}
	if u.IsBlocked {
		return core.ForbiddenError("this user is blocked")
	}

	code, expires, err := s.newCode()
	if err != nil {
		return err
	}
	if err := s.users.SetResetCode(ctx, u.Email, code, expires); err != nil {
		return fmt.Errorf("set reset code: %w", err)
	}

	msg := notify.ResetPasswordEmail(u.Email, code)
	msg.To = u.Email
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

func (s *Service) VerifyResetOtp(ctx context.Context, req VerifyResetOtpRequest) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return core.NotFoundError("user not found")
	}
	if u.codeExpired(time.Now()) {
		return core.ValidationError("reset code has expired")
	}
	if u.ResetCode == nil || *u.ResetCode != req.Code {
		return core.ValidationError("invalid reset code")
	}

	if err := s.users.MarkResetVerified(ctx, u.Email); err != nil {
		return fmt.Errorf("mark reset verified: %w", err)
	}
	return nil
}

// ResetPassword requires a prior successful VerifyResetOtp. An unknown email
// gets the same response as an unverified one, so the endpoint does not leak
// which addresses exist. Returns a fresh token pair so the user lands
// logged in.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*TokenPairResponse, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil || !u.IsResetVerified {
		return nil, core.ValidationError("otp is not verified")
	}

	hash, err := core.HashPassword(req.Password, s.security.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	return s.issueTokenPair(u)
}

func (s *Service) ResendResetCode(ctx context.Context, req ResendCodeRequest) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return core.NotFoundError("user not found")
	}
	if u.IsBlocked {
		return core.ForbiddenError("this user is blocked")
	}

	code, expires, err := s.newCode()
	if err != nil {
		return err
	}
	if err := s.users.SetResetCode(ctx, u.Email, code, expires); err != nil {
		return fmt.Errorf("set reset code: %w", err)
	}

	msg := notify.ResetPasswordEmail(u.Email, code)
	msg.To = u.Email
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

func (s *Service) ResendVerifyCode(ctx context.Context, req ResendCodeRequest) error {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return core.NotFoundError("user not found")
	}
	if u.IsBlocked {
		return core.ForbiddenError("this user is blocked")
	}
	if u.IsVerified {
		return core.ValidationError("this account is already verified")
	}

	code, expires, err := s.newCode()
	if err != nil {
		return err
	}
	if err := s.users.SetVerifyCode(ctx, u.Email, code, expires); err != nil {
		return fmt.Errorf("set verify code: %w", err)
	}

	msg := notify.VerificationEmail(u.Email, code)
	msg.To = u.Email
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

func (s *Service) issueTokenPair(u *UserInfo) (*TokenPairResponse, error) {
	claims := claimsFor(u)
	accessToken, err := s.tokens.CreateAccessToken(claims)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}
	refreshToken, err := s.tokens.CreateRefreshToken(claims)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}
	return &TokenPairResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) newCode() (int, time.Time, error) {
	code, err := core.GenerateVerifyCode()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("generate code: %w", err)
	}
	return code, time.Now().Add(s.security.CodeTTL), nil
}

func claimsFor(u *UserInfo) Claims {
	return Claims{
		UserID:    u.ID,
		ProfileID: u.ProfileID,
		Email:     u.Email,
		Role:      u.Role,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
