// AngelaMos | 2026
// entity.go

package student

import (
	"time"
)

// Student is the profile row joined with its institute and account columns
// for the read paths.
type Student struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	InstituteID *string   `db:"institute_id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	InstituteName    *string `db:"institute_name"`
	InstituteAddress *string `db:"institute_address"`
	UserRole         *string `db:"user_role"`
	UserIsVerified   *bool   `db:"user_is_verified"`
	UserIsBlocked    *bool   `db:"user_is_blocked"`
}
