// AngelaMos | 2026
// repository.go

package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acadmix/server/internal/core"
)

type Repository interface {
	Create(ctx context.Context, c *Course) error
	GetByID(ctx context.Context, id string) (*Course, error)
	List(ctx context.Context, q ListQuery) ([]Course, int, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, c *Course) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *core.Database) Repository {
	return &repository{db: db.DB}
}

func (r *repository) Create(ctx context.Context, c *Course) error {
	err := r.db.GetContext(ctx, c, `
		INSERT INTO courses (id, name)
		VALUES ($1, $2)
		RETURNING id, name, created_at, updated_at`,
		c.ID, c.Name)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return core.ConflictError("course already exists with this name")
		}
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Course, error) {
	var c Course
	err := r.db.GetContext(ctx, &c, `
		SELECT id, name, created_at, updated_at FROM courses WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]Course, int, error) {
	where := ""
	args := []any{}
	if q.SearchTerm != "" {
		where = `WHERE name ILIKE $1`
		args = append(args, "%"+q.SearchTerm+"%")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM courses %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	offset := (q.Page - 1) * q.Limit
	listQuery := fmt.Sprintf(`
		SELECT id, name, created_at, updated_at
		FROM courses
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, offset)

	courses := []Course{}
	if err := r.db.SelectContext(ctx, &courses, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	return courses, total, nil
}

func (r *repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM courses WHERE lower(name) = lower($1))`, name)
	if err != nil {
		return false, fmt.Errorf("check course name: %w", err)
	}
	return exists, nil
}

func (r *repository) Update(ctx context.Context, c *Course) error {
	err := r.db.GetContext(ctx, c, `
		UPDATE courses
		SET name = $1, updated_at = now()
		WHERE id = $2
		RETURNING id, name, created_at, updated_at`,
		c.Name, c.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrNotFound
		}
		if core.IsDuplicateKeyError(err) {
			return core.ConflictError("course already exists with this name")
		}
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}
