// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/acadmix/server/internal/auth"
	"github.com/acadmix/server/internal/config"
	"github.com/acadmix/server/internal/core"
	"github.com/acadmix/server/internal/notify"
)

type Service struct {
	repo       Repository
	tokens     *auth.TokenManager
	mailer     notify.Mailer
	security   config.SecurityConfig
	superAdmin config.SuperAdminConfig
	logger     *slog.Logger
}

func NewService(
	repo Repository,
	tokens *auth.TokenManager,
	mailer notify.Mailer,
	security config.SecurityConfig,
	superAdmin config.SuperAdminConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		mailer:     mailer,
		security:   security,
		superAdmin: superAdmin,
		logger:     logger,
	}
}

// Register creates the account and its role profile, then emails the
// verification code. The send is fire-and-forget: the account exists either
// way, and the code can be resent.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	email := normalizeEmail(req.Email)

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, core.ConflictError("this email already exists")
	}

	hash, err := core.HashPassword(req.Password, s.security.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	code, err := core.GenerateVerifyCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	expires := time.Now().Add(s.security.CodeTTL)

	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		VerifyCode:   &code,
		CodeExpireIn: &expires,
	}
	p := &Profile{
		ID:     uuid.NewString(),
		UserID: u.ID,
		Name:   req.Name,
		Email:  email,
	}
	switch req.Role {
	case RoleStudent:
		p.InstituteID = &req.InstituteID
	default:
		if req.Phone != "" {
			p.Phone = &req.Phone
		}
	}

	if err := s.repo.CreateWithProfile(ctx, u, p); err != nil {
		return nil, err
	}

	go s.sendAsync(notify.VerificationEmail(req.Name, code), email)

	resp := toUserResponse(u)
	resp.CreatedAt = time.Now()
	return &resp, nil
}

// VerifyCode confirms the emailed code and logs the account in, returning a
// token pair alongside the verified user.
func (s *Service) VerifyCode(ctx context.Context, req VerifyCodeRequest) (*VerifiedResponse, error) {
	email := normalizeEmail(req.Email)

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("user not found")
		}
		return nil, err
	}
	if u.IsVerified {
		return nil, core.ValidationError("this account is already verified")
	}
	if u.CodeExpired(time.Now()) {
		return nil, core.ValidationError("verification code has expired")
	}
	if u.VerifyCode == nil || *u.VerifyCode != req.Code {
		return nil, core.ValidationError("invalid verification code")
	}

	verified, err := s.repo.MarkVerified(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("mark verified: %w", err)
	}

	claims := auth.Claims{
		UserID:    verified.ID,
		ProfileID: verified.ProfileIDString(),
		Email:     verified.Email,
		Role:      verified.Role,
	}
	accessToken, err := s.tokens.CreateAccessToken(claims)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}
	refreshToken, err := s.tokens.CreateRefreshToken(claims)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	return &VerifiedResponse{
		User:         toUserResponse(verified),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// DeleteAccount is the self-service variant: the caller confirms their own
// password and their account plus profile go away in one transaction.
func (s *Service) DeleteAccount(ctx context.Context, userID, password string) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("user not found")
		}
		return err
	}

	ok, err := core.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return core.ForbiddenError("password does not match")
	}

	return s.repo.DeleteWithProfile(ctx, u)
}

// DeleteUser removes another user and their profile. Super admin accounts
// can only be removed by another super admin.
func (s *Service) DeleteUser(ctx context.Context, callerRole, targetID string) error {
	u, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("user not found")
		}
		return err
	}
	if u.Role == RoleSuperAdmin && callerRole != RoleSuperAdmin {
		return core.ForbiddenError("cannot delete a super admin account")
	}

	if err := s.repo.DeleteWithProfile(ctx, u); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("user not found")
		}
		return err
	}
	return nil
}

func (s *Service) GetMyProfile(ctx context.Context, email, role string) (*ProfileResponse, error) {
	p, err := s.repo.GetProfileByEmail(ctx, role, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("profile not found")
		}
		return nil, err
	}
	resp := toProfileResponse(p, role)
	return &resp, nil
}

// ChangeUserStatus blocks or unblocks an account. Super admins cannot be
// blocked.
func (s *Service) ChangeUserStatus(ctx context.Context, targetID string, req ChangeStatusRequest) (*UserResponse, error) {
	u, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("user not found")
		}
		return nil, err
	}
	if u.Role == RoleSuperAdmin && req.IsBlocked {
		return nil, core.ForbiddenError("cannot block a super admin account")
	}

	updated, err := s.repo.SetBlocked(ctx, targetID, req.IsBlocked)
	if err != nil {
		return nil, fmt.Errorf("change user status: %w", err)
	}
	resp := toUserResponse(updated)
	return &resp, nil
}

// EnsureSuperAdmin seeds the configured super admin account on startup. A
// missing config skips the seed; an existing super admin makes it a no-op.
func (s *Service) EnsureSuperAdmin(ctx context.Context) error {
	if s.superAdmin.Email == "" || s.superAdmin.Password == "" {
		s.logger.Info("super admin seed skipped, no credentials configured")
		return nil
	}

	exists, err := s.repo.HasSuperAdmin(ctx)
	if err != nil {
		return fmt.Errorf("check super admin: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := core.HashPassword(s.superAdmin.Password, s.security.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash super admin password: %w", err)
	}

	email := normalizeEmail(s.superAdmin.Email)
	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         RoleSuperAdmin,
	}
	p := &Profile{
		ID:     uuid.NewString(),
		UserID: u.ID,
		Name:   s.superAdmin.Name,
		Email:  email,
	}
	if err := s.repo.CreateWithProfile(ctx, u, p); err != nil {
		return fmt.Errorf("seed super admin: %w", err)
	}
	if _, err := s.repo.MarkVerified(ctx, email); err != nil {
		return fmt.Errorf("verify super admin: %w", err)
	}

	s.logger.Info("super admin account seeded", "email", email)
	return nil
}

func (s *Service) sendAsync(msg notify.Message, to string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	msg.To = to
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("failed to send email", "to", to, "subject", msg.Subject, "error", err)
	}
}

// --- auth.UserProvider ---

var _ auth.UserProvider = (*Service)(nil)

func (s *Service) GetByEmail(ctx context.Context, email string) (*auth.UserInfo, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(u), nil
}

func (s *Service) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) SetVerifyCode(ctx context.Context, email string, code int, expires time.Time) error {
	return s.repo.SetVerifyCode(ctx, email, code, expires)
}

func (s *Service) SetResetCode(ctx context.Context, email string, code int, expires time.Time) error {
	return s.repo.SetResetCode(ctx, email, code, expires)
}

func (s *Service) MarkResetVerified(ctx context.Context, email string) error {
	return s.repo.MarkResetVerified(ctx, email)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:              u.ID,
		ProfileID:       u.ProfileIDString(),
		Email:           u.Email,
		Role:            u.Role,
		PasswordHash:    u.PasswordHash,
		IsBlocked:       u.IsBlocked,
		IsVerified:      u.IsVerified,
		IsResetVerified: u.IsResetVerified,
		VerifyCode:      u.VerifyCode,
		ResetCode:       u.ResetCode,
		CodeExpireIn:    u.CodeExpireIn,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
