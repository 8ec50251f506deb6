// AngelaMos | 2026
// handler_test.go

package auth

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

func stubAuth(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestChangePasswordConfirmMismatch(t *testing.T) {
	u := testUser(t)
	users := newFakeUsers(u)
	svc := newTestService(t, users, &fakeMailer{})
	handler := NewHandler(svc, validator.New(validator.WithRequiredStructEnabled()))
	router := handler.Routes(stubAuth(u.ID))

	originalHash := u.PasswordHash

	rec := doJSON(t, router, http.MethodPost, "/change-password", `{
		"oldPassword": "secret-password",
		"newPassword": "brand-new-password",
		"confirmPassword": "something-else-entirely"
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope core.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.NotEmpty(t, envelope.ErrorMessages)

	// Validation fails before the service runs, so the hash is untouched.
	assert.Equal(t, originalHash, users.byEmail[u.Email].PasswordHash)
}

func TestChangePasswordOverHTTP(t *testing.T) {
	u := testUser(t)
	users := newFakeUsers(u)
	svc := newTestService(t, users, &fakeMailer{})
	handler := NewHandler(svc, validator.New(validator.WithRequiredStructEnabled()))
	router := handler.Routes(stubAuth(u.ID))

	rec := doJSON(t, router, http.MethodPost, "/change-password", `{
		"oldPassword": "secret-password",
		"newPassword": "brand-new-password",
		"confirmPassword": "brand-new-password"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	ok, err := core.VerifyPassword("brand-new-password", users.byEmail[u.Email].PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}
