// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
	RoleStudent    = "STUDENT"
)

// profileTables drives the role-to-profile dispatch. Adding a role means
// adding a row here and a matching table in the schema.
var profileTables = map[string]string{
	RoleStudent:    "students",
	RoleAdmin:      "admins",
	RoleSuperAdmin: "super_admins",
}

func ProfileTable(role string) (string, bool) {
	table, ok := profileTables[role]
	return table, ok
}

type User struct {
	ID                string     `db:"id"`
	Email             string     `db:"email"`
	PasswordHash      string     `db:"password_hash"`
	Role              string     `db:"role"`
	ProfileID         *string    `db:"profile_id"`
	IsVerified        bool       `db:"is_verified"`
	IsBlocked         bool       `db:"is_blocked"`
	IsResetVerified   bool       `db:"is_reset_verified"`
	VerifyCode        *int       `db:"verify_code"`
	ResetCode         *int       `db:"reset_code"`
	CodeExpireIn      *time.Time `db:"code_expire_in"`
	PasswordChangedAt *time.Time `db:"password_changed_at"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

// CodeExpired reports whether the active one-time code window has closed.
// A missing expiry counts as expired: a code is valid only while
// code_expire_in is set and in the future.
func (u *User) CodeExpired(now time.Time) bool {
	return u.CodeExpireIn == nil || u.CodeExpireIn.Before(now)
}

func (u *User) ProfileIDString() string {
	if u.ProfileID == nil {
		return ""
	}
	return *u.ProfileID
}

// Profile is the role-specific record linked 1:1 with a User. InstituteID is
// set for students only; Phone for admins and super admins.
type Profile struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	Phone       *string   `db:"phone"`
	InstituteID *string   `db:"institute_id"`
	CreatedAt   time.Time `db:"created_at"`
}
