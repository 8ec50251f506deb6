// AngelaMos | 2026
// handler_test.go

package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadmix/server/internal/core"
	"github.com/acadmix/server/internal/middleware"
)

// stubAuth plays the authenticator, stamping a fixed admin identity onto
// every request.
func stubAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = context.WithValue(ctx, middleware.UserIDKey, "test-admin-id")
		ctx = context.WithValue(ctx, middleware.UserEmailKey, "ada@example.com")
		ctx = context.WithValue(ctx, middleware.UserRoleKey, RoleAdmin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newTestRouter(t *testing.T, repo Repository) http.Handler {
	t.Helper()
	svc := newTestService(t, repo, newRecordingMailer())
	handler := NewHandler(svc, validator.New(validator.WithRequiredStructEnabled()))
	return handler.Routes(stubAuth)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterPasswordMismatchCreatesNothing(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(t, repo)

	rec := doJSON(t, router, http.MethodPost, "/create", `{
		"name": "Ada Lovelace",
		"email": "ada@example.com",
		"password": "secret-password",
		"confirmPassword": "different-password",
		"role": "ADMIN"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope core.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.ErrorMessages)

	// The request must die at validation, before any row is written.
	assert.Empty(t, repo.users)
	assert.Empty(t, repo.profiles)
}

func TestRegisterValidation(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(t, repo)

	rec := doJSON(t, router, http.MethodPost, "/create", `not-json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A STUDENT without an institute is rejected.
	rec = doJSON(t, router, http.MethodPost, "/create", `{
		"name": "Ada Lovelace",
		"email": "ada@example.com",
		"password": "secret-password",
		"confirmPassword": "secret-password",
		"role": "STUDENT"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.users)
}

func TestRegisterOverHTTP(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(t, repo)

	rec := doJSON(t, router, http.MethodPost, "/create", `{
		"name": "Ada Lovelace",
		"email": "ada@example.com",
		"phone": "01700000000",
		"password": "secret-password",
		"confirmPassword": "secret-password",
		"role": "ADMIN"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Success bool         `json:"success"`
		Data    UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "ada@example.com", envelope.Data.Email)
	assert.False(t, envelope.Data.IsVerified)
	require.NotNil(t, repo.findByEmail("ada@example.com"))
}
