// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/acadmix/server/internal/config"
	"github.com/acadmix/server/internal/core"
	"github.com/acadmix/server/internal/notify"
)

type fakeUsers struct {
	byEmail map[string]*UserInfo
}

func newFakeUsers(users ...*UserInfo) *fakeUsers {
	f := &fakeUsers{byEmail: map[string]*UserInfo{}}
	for _, u := range users {
		f.byEmail[u.Email] = u
	}
	return f
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	for _, u := range f.byEmail {
		if u.ID == userID {
			u.PasswordHash = passwordHash
			u.IsResetVerified = false
			u.ResetCode = nil
			u.CodeExpireIn = nil
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakeUsers) SetVerifyCode(_ context.Context, email string, code int, expires time.Time) error {
	u, ok := f.byEmail[email]
	if !ok {
		return core.ErrNotFound
	}
	u.VerifyCode = &code
	u.CodeExpireIn = &expires
	u.IsVerified = false
	return nil
}

func (f *fakeUsers) SetResetCode(_ context.Context, email string, code int, expires time.Time) error {
	u, ok := f.byEmail[email]
	if !ok {
		return core.ErrNotFound
	}
	u.ResetCode = &code
	u.CodeExpireIn = &expires
	u.IsResetVerified = false
	return nil
}

func (f *fakeUsers) MarkResetVerified(_ context.Context, email string) error {
	u, ok := f.byEmail[email]
	if !ok {
		return core.ErrNotFound
	}
	u.IsResetVerified = true
	u.ResetCode = nil
	u.CodeExpireIn = nil
	return nil
}

type fakeMailer struct {
	sent    []notify.Message
	failure error
}

func (f *fakeMailer) Send(_ context.Context, msg notify.Message) error {
	if f.failure != nil {
		return f.failure
	}
	f.sent = append(f.sent, msg)
	return nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := core.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

func testUser(t *testing.T) *UserInfo {
	return &UserInfo{
		ID:           "11111111-1111-1111-1111-111111111111",
		ProfileID:    "22222222-2222-2222-2222-222222222222",
		Email:        "student@example.com",
		Role:         "STUDENT",
		PasswordHash: mustHash(t, "secret-password"),
		IsVerified:   true,
	}
}

func newTestService(t *testing.T, users *fakeUsers, mailer *fakeMailer) *Service {
	t.Helper()
	tm, err := NewTokenManager(testJWTConfig())
	require.NoError(t, err)

	security := config.SecurityConfig{
		BcryptCost: bcrypt.MinCost,
		CodeTTL:    5 * time.Minute,
	}
	return NewService(users, tm, mailer, security, slog.Default())
}

func TestLogin(t *testing.T) {
	users := newFakeUsers(testUser(t))
	svc := newTestService(t, users, &fakeMailer{})
	ctx := context.Background()

	tokens, err := svc.Login(ctx, LoginRequest{Email: "Student@Example.com", Password: "secret-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	_, err = svc.Login(ctx, LoginRequest{Email: "student@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, core.ErrForbidden)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret-password"})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestLoginBlockedAccount(t *testing.T) {
	u := testUser(t)
	u.IsBlocked = true
	svc := newTestService(t, newFakeUsers(u), &fakeMailer{})

	// Blocked wins even with the correct password.
	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "student@example.com",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestRefreshAccessTokenUsesFreshUserState(t *testing.T) {
	u := testUser(t)
	users := newFakeUsers(u)
	svc := newTestService(t, users, &fakeMailer{})
	ctx := context.Background()

	tokens, err := svc.Login(ctx, LoginRequest{Email: u.Email, Password: "secret-password"})
	require.NoError(t, err)

	// Promote the user after the refresh token was issued; the next access
	// token must carry the new role, not the one baked into the refresh token.
	users.byEmail[u.Email].Role = "ADMIN"

	refreshed, err := svc.RefreshAccessToken(ctx, RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)

	tm, err := NewTokenManager(testJWTConfig())
	require.NoError(t, err)
	claims, err := tm.VerifyAccessToken(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestRefreshAccessTokenRejectsBlockedAndInvalid(t *testing.T) {
	u := testUser(t)
	users := newFakeUsers(u)
	svc := newTestService(t, users, &fakeMailer{})
	ctx := context.Background()

	tokens, err := svc.Login(ctx, LoginRequest{Email: u.Email, Password: "secret-password"})
	require.NoError(t, err)

	users.byEmail[u.Email].IsBlocked = true
	_, err = svc.RefreshAccessToken(ctx, RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, core.ErrForbidden)

	_, err = svc.RefreshAccessToken(ctx, RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestChangePassword(t *testing.T) {
	u := testUser(t)
	users := newFakeUsers(u)
	svc := newTestService(t, users, &fakeMailer{})
	ctx := context.Background()

	_, err := svc.ChangePassword(ctx, u.ID, ChangePasswordRequest{
		OldPassword:     "not-the-old-one",
		NewPassword:     "brand-new-password",
		ConfirmPassword: "brand-new-password",
	})
	assert.ErrorIs(t, err, core.ErrForbidden)

	tokens, err := svc.ChangePassword(ctx, u.ID, ChangePasswordRequest{
		OldPassword:     "secret-password",
		NewPassword:     "brand-new-password",
		ConfirmPassword: "brand-new-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	ok, err := core.VerifyPassword("brand-new-password", users.byEmail[u.Email].PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestForgotPasswordStoresCodeAndSendsEmail(t *testing.T) {
	u := testUser(t)
	users := newFakeUsers(u)
	mailer := &fakeMailer{}
	svc := newTestService(t, users, mailer)
	ctx := context.Background()

	err := svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: u.Email})
	require.NoError(t, err)

	stored := users.byEmail[u.Email]
	require.NotNil(t, stored.ResetCode)
	assert.GreaterOrEqual(t, *stored.ResetCode, 100000)
	require.NotNil(t, stored.CodeExpireIn)
	assert.True(t, stored.CodeExpireIn.After(time.Now()))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, u.Email, mailer.sent[0].To)

	err = svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestForgotPasswordSurfacesMailFailure(t *testing.T) {
	u := testUser(t)
	svc := newTestService(t, newFakeUsers(u), &fakeMailer{failure: errors.New("smtp down")})

	err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: u.Email})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}

func TestVerifyResetOtp(t *testing.T) {
	u := testUser(t)
	users := newFakeUsers(u)
	svc := newTestService(t, users, &fakeMailer{})
	ctx := context.Background()

	require.NoError(t, svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: u.Email}))
	code := *users.byEmail[u.Email].ResetCode

	err := svc.VerifyResetOtp(ctx, VerifyResetOtpRequest{Email: u.Email, Code: code + 1})
	assert.ErrorIs(t, err, core.ErrValidation)

	err = svc.VerifyResetOtp(ctx, VerifyResetOtpRequest{Email: u.Email, Code: code})
	require.NoError(t, err)
	assert.True(t, users.byEmail[u.Email].IsResetVerified)
}

func TestVerifyResetOtpExpiredCode(t *testing.T) {
	u := testUser(t)
	code := 123456
	expired := time.Now().Add(-time.Minute)
	u.ResetCode = &code
	u.CodeExpireIn = &expired
	svc := newTestService(t, newFakeUsers(u), &fakeMailer{})

	// The right code after the window closed is still rejected.
	err := svc.VerifyResetOtp(context.Background(), VerifyResetOtpRequest{
		Email: u.Email,
		Code:  code,
	})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestResetPasswordRequiresPriorOtpVerification(t *testing.T) {
	u := testUser(t)
	users := newFakeUsers(u)
	svc := newTestService(t, users, &fakeMailer{})
	ctx := context.Background()

	_, err := svc.ResetPassword(ctx, ResetPasswordRequest{
		Email:           u.Email,
		Password:        "replacement-pw",
		ConfirmPassword: "replacement-pw",
	})
	assert.ErrorIs(t, err, core.ErrValidation)

	users.byEmail[u.Email].IsResetVerified = true

	tokens, err := svc.ResetPassword(ctx, ResetPasswordRequest{
		Email:           u.Email,
		Password:        "replacement-pw",
		ConfirmPassword: "replacement-pw",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	ok, err := core.VerifyPassword("replacement-pw", users.byEmail[u.Email].PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResendVerifyCode(t *testing.T) {
	u := testUser(t)
	u.IsVerified = false
	users := newFakeUsers(u)
	mailer := &fakeMailer{}
	svc := newTestService(t, users, mailer)
	ctx := context.Background()

	require.NoError(t, svc.ResendVerifyCode(ctx, ResendCodeRequest{Email: u.Email}))
	assert.NotNil(t, users.byEmail[u.Email].VerifyCode)
	assert.Len(t, mailer.sent, 1)

	users.byEmail[u.Email].IsVerified = true
	err := svc.ResendVerifyCode(ctx, ResendCodeRequest{Email: u.Email})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestResetFlowsRejectBlockedAccount(t *testing.T) {
	u := testUser(t)
	u.IsBlocked = true
	svc := newTestService(t, newFakeUsers(u), &fakeMailer{})
	ctx := context.Background()

	err := svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: u.Email})
	assert.ErrorIs(t, err, core.ErrForbidden)

	err = svc.ResendResetCode(ctx, ResendCodeRequest{Email: u.Email})
	assert.ErrorIs(t, err, core.ErrForbidden)
}
