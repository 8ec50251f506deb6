// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/acadmix/server/internal/core"
)

type SweepResult struct {
	Users    int64
	Profiles int64
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CreateWithProfile(ctx context.Context, u *User, p *Profile) error
	MarkVerified(ctx context.Context, email string) (*User, error)
	MarkResetVerified(ctx context.Context, email string) error
	SetVerifyCode(ctx context.Context, email string, code int, expires time.Time) error
	SetResetCode(ctx context.Context, email string, code int, expires time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetBlocked(ctx context.Context, id string, blocked bool) (*User, error)
	DeleteWithProfile(ctx context.Context, u *User) error
	GetProfileByEmail(ctx context.Context, role, email string) (*Profile, error)
	HasSuperAdmin(ctx context.Context) (bool, error)
	SweepExpired(ctx context.Context, now time.Time) (SweepResult, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *core.Database) Repository {
	return &repository{db: db.DB}
}

const userColumns = `id, email, password_hash, role, profile_id, is_verified, is_blocked,
	is_reset_verified, verify_code, reset_code, code_expire_in, password_changed_at,
	created_at, updated_at`

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	if err := r.db.GetContext(ctx, &u, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (r *repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

// CreateWithProfile inserts the user row, the role-specific profile row and
// backfills users.profile_id inside one transaction. A failure at any step
// leaves no orphan rows behind.
func (r *repository) CreateWithProfile(ctx context.Context, u *User, p *Profile) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, email, password_hash, role, verify_code, code_expire_in)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			u.ID, u.Email, u.PasswordHash, u.Role, u.VerifyCode, u.CodeExpireIn)
		if err != nil {
			if core.IsDuplicateKeyError(err) {
				return core.ConflictError("this email already exists")
			}
			return fmt.Errorf("insert user: %w", err)
		}

		if err := insertProfile(ctx, tx, u.Role, p); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE users SET profile_id = $1, updated_at = now() WHERE id = $2`,
			p.ID, u.ID)
		if err != nil {
			return fmt.Errorf("link profile: %w", err)
		}
		u.ProfileID = &p.ID
		return nil
	})
}

func insertProfile(ctx context.Context, tx *sqlx.Tx, role string, p *Profile) error {
	table, ok := ProfileTable(role)
	if !ok {
		return fmt.Errorf("no profile table for role %q", role)
	}
	var err error
	switch role {
	case RoleStudent:
		_, err = tx.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (id, user_id, institute_id, name, email)
			VALUES ($1, $2, $3, $4, $5)`, table),
			p.ID, p.UserID, p.InstituteID, p.Name, p.Email)
	default:
		_, err = tx.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %s (id, user_id, name, email, phone)
			VALUES ($1, $2, $3, $4, $5)`, table),
			p.ID, p.UserID, p.Name, p.Email, p.Phone)
	}
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return core.ConflictError("this email already exists")
		}
		return fmt.Errorf("insert %s profile: %w", table, err)
	}
	return nil
}

func (r *repository) MarkVerified(ctx context.Context, email string) (*User, error) {
	var u User
	query := fmt.Sprintf(`
		UPDATE users
		SET is_verified = true, verify_code = NULL, code_expire_in = NULL, updated_at = now()
		WHERE email = $1
		RETURNING %s`, userColumns)
	if err := r.db.GetContext(ctx, &u, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("mark verified: %w", err)
	}
	return &u, nil
}

func (r *repository) MarkResetVerified(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET is_reset_verified = true, reset_code = NULL, code_expire_in = NULL, updated_at = now()
		WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("mark reset verified: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// SetVerifyCode stores a fresh verification code and drops the verified flag
// so the account must confirm the new code.
func (r *repository) SetVerifyCode(ctx context.Context, email string, code int, expires time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET verify_code = $1, code_expire_in = $2, is_verified = false, updated_at = now()
		WHERE email = $3`, code, expires, email)
	if err != nil {
		return fmt.Errorf("set verify code: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *repository) SetResetCode(ctx context.Context, email string, code int, expires time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET reset_code = $1, code_expire_in = $2, is_reset_verified = false, updated_at = now()
		WHERE email = $3`, code, expires, email)
	if err != nil {
		return fmt.Errorf("set reset code: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $1, password_changed_at = now(), is_reset_verified = false,
			reset_code = NULL, code_expire_in = NULL, updated_at = now()
		WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *repository) SetBlocked(ctx context.Context, id string, blocked bool) (*User, error) {
	var u User
	query := fmt.Sprintf(`
		UPDATE users SET is_blocked = $1, updated_at = now()
		WHERE id = $2
		RETURNING %s`, userColumns)
	if err := r.db.GetContext(ctx, &u, query, blocked, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("set blocked: %w", err)
	}
	return &u, nil
}

// DeleteWithProfile removes the profile row and the user row in one
// transaction.
func (r *repository) DeleteWithProfile(ctx context.Context, u *User) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		table, ok := ProfileTable(u.Role)
		if !ok {
			return fmt.Errorf("no profile table for role %q", u.Role)
		}
		_, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, table), u.ID)
		if err != nil {
			return fmt.Errorf("delete %s profile: %w", table, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, u.ID)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return core.ErrNotFound
		}
		return nil
	})
}

func (r *repository) GetProfileByEmail(ctx context.Context, role, email string) (*Profile, error) {
	table, ok := ProfileTable(role)
	if !ok {
		return nil, fmt.Errorf("no profile table for role %q", role)
	}
	var p Profile
	var query string
	if role == RoleStudent {
		query = fmt.Sprintf(`
			SELECT id, user_id, name, email, institute_id, created_at
			FROM %s WHERE email = $1`, table)
	} else {
		query = fmt.Sprintf(`
			SELECT id, user_id, name, email, phone, created_at
			FROM %s WHERE email = $1`, table)
	}
	if err := r.db.GetContext(ctx, &p, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get %s profile: %w", table, err)
	}
	return &p, nil
}

func (r *repository) HasSuperAdmin(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE role = $1)`, RoleSuperAdmin)
	if err != nil {
		return false, fmt.Errorf("check super admin exists: %w", err)
	}
	return exists, nil
}

// SweepExpired deletes every unverified account whose code window has
// closed, profile rows first. Runs in a single transaction so a crash
// mid-sweep leaves the accounts intact for the next pass.
func (r *repository) SweepExpired(ctx context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var ids []string
		err := tx.SelectContext(ctx, &ids, `
			SELECT id FROM users
			WHERE is_verified = false AND code_expire_in IS NOT NULL AND code_expire_in < $1`,
			now)
		if err != nil {
			return fmt.Errorf("select expired users: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		for _, table := range profileTables {
			query, args, err := sqlx.In(
				fmt.Sprintf(`DELETE FROM %s WHERE user_id IN (?)`, table), ids)
			if err != nil {
				return fmt.Errorf("build %s sweep query: %w", table, err)
			}
			res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
			if err != nil {
				return fmt.Errorf("sweep %s profiles: %w", table, err)
			}
			n, _ := res.RowsAffected()
			result.Profiles += n
		}

		query, args, err := sqlx.In(`DELETE FROM users WHERE id IN (?)`, ids)
		if err != nil {
			return fmt.Errorf("build user sweep query: %w", err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		if err != nil {
			return fmt.Errorf("sweep users: %w", err)
		}
		result.Users, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}
	return result, nil
}
