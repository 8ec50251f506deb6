// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestPaginatedMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, "ok", []string{"a", "b"}, 2, 10, 25)

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeBody[SuccessEnvelope](t, rec)
	assert.True(t, envelope.Success)
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, 2, envelope.Meta.Page)
	assert.Equal(t, 10, envelope.Meta.Limit)
	assert.Equal(t, 25, envelope.Meta.Total)
	assert.Equal(t, 3, envelope.Meta.TotalPages)
}

func TestJSONErrorMapsTypedErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", NotFoundError("user not found"), http.StatusNotFound},
		{"conflict", ConflictError("email exists"), http.StatusConflict},
		{"validation", ValidationError("bad input"), http.StatusBadRequest},
		{"forbidden", ForbiddenError("blocked"), http.StatusForbidden},
		{"unauthorized", UnauthorizedError(""), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSONError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			envelope := decodeBody[ErrorEnvelope](t, rec)
			assert.False(t, envelope.Success)
			assert.NotEmpty(t, envelope.Message)
			assert.NotEmpty(t, envelope.ErrorMessages)
		})
	}
}

func TestJSONErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	envelope := decodeBody[ErrorEnvelope](t, rec)
	assert.Equal(t, "something went wrong", envelope.Message)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestJSONErrorStackOnlyInDevMode(t *testing.T) {
	SetDevMode(false)
	t.Cleanup(func() { SetDevMode(false) })

	rec := httptest.NewRecorder()
	JSONError(rec, ValidationError("nope"))
	envelope := decodeBody[ErrorEnvelope](t, rec)
	assert.Empty(t, envelope.Stack)

	SetDevMode(true)
	rec = httptest.NewRecorder()
	JSONError(rec, ValidationError("nope"))
	envelope = decodeBody[ErrorEnvelope](t, rec)
	assert.NotEmpty(t, envelope.Stack)
}

func TestStatusForErrorWrappedSentinels(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), ErrNotFound)
	assert.Equal(t, http.StatusNotFound, StatusForError(wrapped))
	assert.Equal(t, http.StatusUnauthorized, StatusForError(ErrTokenExpired))
}
