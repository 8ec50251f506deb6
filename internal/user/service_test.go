// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/acadmix/server/internal/auth"
	"github.com/acadmix/server/internal/config"
	"github.com/acadmix/server/internal/core"
	"github.com/acadmix/server/internal/notify"
)

// memRepo is an in-memory Repository good enough for service and sweeper
// behavior: one map of users keyed by id plus their profiles.
type memRepo struct {
	users    map[string]*User
	profiles map[string]*Profile
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:    map[string]*User{},
		profiles: map[string]*Profile{},
	}
}

func (m *memRepo) findByEmail(email string) *User {
	for _, u := range m.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	if u := m.findByEmail(email); u != nil {
		clone := *u
		return &clone, nil
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return m.findByEmail(email) != nil, nil
}

func (m *memRepo) CreateWithProfile(_ context.Context, u *User, p *Profile) error {
	if m.findByEmail(u.Email) != nil {
		return core.ConflictError("this email already exists")
	}
	stored := *u
	stored.ProfileID = &p.ID
	stored.CreatedAt = time.Now()
	m.users[u.ID] = &stored
	profile := *p
	profile.CreatedAt = time.Now()
	m.profiles[p.ID] = &profile
	u.ProfileID = &p.ID
	return nil
}

func (m *memRepo) MarkVerified(_ context.Context, email string) (*User, error) {
	u := m.findByEmail(email)
	if u == nil {
		return nil, core.ErrNotFound
	}
	u.IsVerified = true
	u.VerifyCode = nil
	u.CodeExpireIn = nil
	clone := *u
	return &clone, nil
}

func (m *memRepo) MarkResetVerified(_ context.Context, email string) error {
	u := m.findByEmail(email)
	if u == nil {
		return core.ErrNotFound
	}
	u.IsResetVerified = true
	u.ResetCode = nil
	u.CodeExpireIn = nil
	return nil
}

func (m *memRepo) SetVerifyCode(_ context.Context, email string, code int, expires time.Time) error {
	u := m.findByEmail(email)
	if u == nil {
		return core.ErrNotFound
	}
	u.VerifyCode = &code
	u.CodeExpireIn = &expires
	u.IsVerified = false
	return nil
}

func (m *memRepo) SetResetCode(_ context.Context, email string, code int, expires time.Time) error {
	u := m.findByEmail(email)
	if u == nil {
		return core.ErrNotFound
	}
	u.ResetCode = &code
	u.CodeExpireIn = &expires
	u.IsResetVerified = false
	return nil
}

func (m *memRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	now := time.Now()
	u.PasswordHash = passwordHash
	u.PasswordChangedAt = &now
	return nil
}

func (m *memRepo) SetBlocked(_ context.Context, id string, blocked bool) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	u.IsBlocked = blocked
	clone := *u
	return &clone, nil
}

func (m *memRepo) DeleteWithProfile(_ context.Context, u *User) error {
	if _, ok := m.users[u.ID]; !ok {
		return core.ErrNotFound
	}
	if u.ProfileID != nil {
		delete(m.profiles, *u.ProfileID)
	}
	delete(m.users, u.ID)
	return nil
}

func (m *memRepo) GetProfileByEmail(_ context.Context, _, email string) (*Profile, error) {
	for _, p := range m.profiles {
		if p.Email == email {
			clone := *p
			return &clone, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) HasSuperAdmin(_ context.Context) (bool, error) {
	for _, u := range m.users {
		if u.Role == RoleSuperAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) SweepExpired(_ context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult
	for id, u := range m.users {
		if !u.IsVerified && u.CodeExpireIn != nil && u.CodeExpireIn.Before(now) {
			if u.ProfileID != nil {
				delete(m.profiles, *u.ProfileID)
				result.Profiles++
			}
			delete(m.users, id)
			result.Users++
		}
	}
	return result, nil
}

type recordingMailer struct {
	sent chan notify.Message
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{sent: make(chan notify.Message, 8)}
}

func (m *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	m.sent <- msg
	return nil
}

func testTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(config.JWTConfig{
		AccessSecret:       "test-access-secret-at-least-32-chars",
		RefreshSecret:      "test-refresh-secret-at-least-32-char",
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 7 * 24 * time.Hour,
		Issuer:             "acadmix-test",
		Audience:           "acadmix-api",
	})
	require.NoError(t, err)
	return tm
}

func newTestService(t *testing.T, repo Repository, mailer notify.Mailer) *Service {
	t.Helper()
	security := config.SecurityConfig{BcryptCost: bcrypt.MinCost, CodeTTL: 5 * time.Minute}
	superAdmin := config.SuperAdminConfig{
		Name:     "Root",
		Email:    "root@example.com",
		Password: "root-password",
	}
	return NewService(repo, testTokenManager(t), mailer, security, superAdmin, slog.Default())
}

func registerRequest() RegisterRequest {
	return RegisterRequest{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Password:        "secret-password",
		ConfirmPassword: "secret-password",
		Role:            RoleAdmin,
		Phone:           "01700000000",
	}
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	repo := newMemRepo()
	mailer := newRecordingMailer()
	svc := newTestService(t, repo, mailer)

	created, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Equal(t, RoleAdmin, created.Role)
	assert.False(t, created.IsVerified)
	assert.NotEmpty(t, created.ProfileID)

	stored := repo.findByEmail("ada@example.com")
	require.NotNil(t, stored)
	require.NotNil(t, stored.VerifyCode)
	assert.GreaterOrEqual(t, *stored.VerifyCode, 100000)
	require.NotNil(t, stored.CodeExpireIn)

	select {
	case msg := <-mailer.sent:
		assert.Equal(t, "ada@example.com", msg.To)
	case <-time.After(2 * time.Second):
		t.Fatal("verification email was never sent")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo, newRecordingMailer())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest())
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.Len(t, repo.users, 1)
}

func TestVerifyCode(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo, newRecordingMailer())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	code := *repo.findByEmail("ada@example.com").VerifyCode

	_, err = svc.VerifyCode(ctx, VerifyCodeRequest{Email: "ada@example.com", Code: code + 1})
	assert.ErrorIs(t, err, core.ErrValidation)

	verified, err := svc.VerifyCode(ctx, VerifyCodeRequest{Email: "ada@example.com", Code: code})
	require.NoError(t, err)
	assert.True(t, verified.User.IsVerified)
	assert.NotEmpty(t, verified.AccessToken)
	assert.NotEmpty(t, verified.RefreshToken)

	// A second attempt on an already-verified account is rejected.
	_, err = svc.VerifyCode(ctx, VerifyCodeRequest{Email: "ada@example.com", Code: code})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestVerifyCodeExpired(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo, newRecordingMailer())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	stored := repo.findByEmail("ada@example.com")
	code := *stored.VerifyCode
	past := time.Now().Add(-time.Minute)
	stored.CodeExpireIn = &past

	_, err = svc.VerifyCode(ctx, VerifyCodeRequest{Email: "ada@example.com", Code: code})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestDeleteAccountRequiresPassword(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo, newRecordingMailer())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	id := repo.findByEmail("ada@example.com").ID

	err = svc.DeleteAccount(ctx, id, "wrong-password")
	assert.ErrorIs(t, err, core.ErrForbidden)
	assert.Len(t, repo.users, 1)

	err = svc.DeleteAccount(ctx, id, "secret-password")
	require.NoError(t, err)
	assert.Empty(t, repo.users)
	assert.Empty(t, repo.profiles)
}

func TestDeleteUserProtectsSuperAdmin(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo, newRecordingMailer())
	ctx := context.Background()

	require.NoError(t, svc.EnsureSuperAdmin(ctx))
	id := repo.findByEmail("root@example.com").ID

	err := svc.DeleteUser(ctx, RoleAdmin, id)
	assert.ErrorIs(t, err, core.ErrForbidden)

	err = svc.DeleteUser(ctx, RoleSuperAdmin, id)
	require.NoError(t, err)
}

func TestChangeUserStatus(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo, newRecordingMailer())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	id := repo.findByEmail("ada@example.com").ID

	updated, err := svc.ChangeUserStatus(ctx, id, ChangeStatusRequest{IsBlocked: true})
	require.NoError(t, err)
	assert.True(t, updated.IsBlocked)

	require.NoError(t, svc.EnsureSuperAdmin(ctx))
	rootID := repo.findByEmail("root@example.com").ID
	_, err = svc.ChangeUserStatus(ctx, rootID, ChangeStatusRequest{IsBlocked: true})
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestEnsureSuperAdminIsIdempotent(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo, newRecordingMailer())
	ctx := context.Background()

	require.NoError(t, svc.EnsureSuperAdmin(ctx))
	require.NoError(t, svc.EnsureSuperAdmin(ctx))

	count := 0
	for _, u := range repo.users {
		if u.Role == RoleSuperAdmin {
			count++
			assert.True(t, u.IsVerified)
		}
	}
	assert.Equal(t, 1, count)
}

func TestGetMyProfile(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo, newRecordingMailer())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	profile, err := svc.GetMyProfile(ctx, "ada@example.com", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", profile.Name)
	assert.Equal(t, "01700000000", profile.Phone)
	assert.Equal(t, RoleAdmin, profile.Role)

	_, err = svc.GetMyProfile(ctx, "nobody@example.com", RoleAdmin)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
