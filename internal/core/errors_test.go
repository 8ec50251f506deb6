// AngelaMos | 2026
// errors_test.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateKeyError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	assert.True(t, IsDuplicateKeyError(dup))
	assert.True(t, IsDuplicateKeyError(fmt.Errorf("insert user: %w", dup)))

	assert.False(t, IsDuplicateKeyError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsDuplicateKeyError(errors.New("not a pg error")))
	assert.False(t, IsDuplicateKeyError(nil))
}

func TestIsForeignKeyError(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503"}
	assert.True(t, IsForeignKeyError(fk))
	assert.True(t, IsForeignKeyError(fmt.Errorf("insert result: %w", fk)))

	assert.False(t, IsForeignKeyError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsForeignKeyError(errors.New("not a pg error")))
	assert.False(t, IsForeignKeyError(nil))
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{ValidationError("bad input"), http.StatusBadRequest},
		{NotFoundError("missing"), http.StatusNotFound},
		{ConflictError("duplicate"), http.StatusConflict},
		{ForbiddenError("no"), http.StatusForbidden},
		{UnauthorizedError(""), http.StatusUnauthorized},
		{TokenExpiredError(), http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", ErrValidation), http.StatusBadRequest},
		{errors.New("opaque"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, StatusForError(tc.err), tc.err.Error())
	}
}
