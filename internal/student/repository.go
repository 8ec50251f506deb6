// AngelaMos | 2026
// repository.go

package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/acadmix/server/internal/core"
)

const studentSelect = `
	SELECT s.id, s.user_id, s.institute_id, s.name, s.email, s.created_at, s.updated_at,
		i.name AS institute_name, i.address AS institute_address,
		u.role AS user_role, u.is_verified AS user_is_verified, u.is_blocked AS user_is_blocked
	FROM students s
	LEFT JOIN institutes i ON i.id = s.institute_id
	LEFT JOIN users u ON u.id = s.user_id`

type Repository interface {
	GetByID(ctx context.Context, id string) (*Student, error)
	List(ctx context.Context, q ListQuery) ([]Student, int, error)
	Update(ctx context.Context, id string, name, instituteID *string) (*Student, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *core.Database) Repository {
	return &repository{db: db.DB}
}

func (r *repository) GetByID(ctx context.Context, id string) (*Student, error) {
	var s Student
	err := r.db.GetContext(ctx, &s, studentSelect+` WHERE s.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]Student, int, error) {
	conditions := []string{}
	args := []any{}
	if q.SearchTerm != "" {
		args = append(args, "%"+q.SearchTerm+"%")
		conditions = append(conditions,
			fmt.Sprintf("(s.name ILIKE $%d OR s.email ILIKE $%d)", len(args), len(args)))
	}
	if q.InstituteID != "" {
		args = append(args, q.InstituteID)
		conditions = append(conditions, fmt.Sprintf("s.institute_id = $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM students s %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	offset := (q.Page - 1) * q.Limit
	listQuery := fmt.Sprintf(`%s
		%s
		ORDER BY s.created_at DESC
		LIMIT $%d OFFSET $%d`, studentSelect, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, offset)

	students := []Student{}
	if err := r.db.SelectContext(ctx, &students, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	return students, total, nil
}

func (r *repository) Update(ctx context.Context, id string, name, instituteID *string) (*Student, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students
		SET name = COALESCE($1, name),
			institute_id = COALESCE($2, institute_id),
			updated_at = now()
		WHERE id = $3`, name, instituteID, id)
	if err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, core.ErrNotFound
	}
	return r.GetByID(ctx, id)
}
