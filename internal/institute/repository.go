// AngelaMos | 2026
// repository.go

package institute

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/acadmix/server/internal/core"
)

type Repository interface {
	Create(ctx context.Context, i *Institute) error
	GetByID(ctx context.Context, id string) (*Institute, error)
	List(ctx context.Context, q ListQuery) ([]Institute, int, error)
	ListStudents(ctx context.Context, instituteID string) ([]StudentSummary, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, i *Institute) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *core.Database) Repository {
	return &repository{db: db.DB}
}

func (r *repository) Create(ctx context.Context, i *Institute) error {
	err := r.db.GetContext(ctx, i, `
		INSERT INTO institutes (id, name, address)
		VALUES ($1, $2, $3)
		RETURNING id, name, address, created_at, updated_at`,
		i.ID, i.Name, i.Address)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return core.ConflictError("institute already exists")
		}
		return fmt.Errorf("insert institute: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Institute, error) {
	var i Institute
	err := r.db.GetContext(ctx, &i, `
		SELECT i.id, i.name, i.address, i.created_at, i.updated_at,
			(SELECT count(*) FROM students s WHERE s.institute_id = i.id) AS student_count,
			(SELECT count(*) FROM results r WHERE r.institute_id = i.id) AS result_count
		FROM institutes i
		WHERE i.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get institute: %w", err)
	}
	return &i, nil
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]Institute, int, error) {
	where := ""
	args := []any{}
	if q.SearchTerm != "" {
		where = `WHERE i.name ILIKE $1 OR i.address ILIKE $1`
		args = append(args, "%"+q.SearchTerm+"%")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM institutes i %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count institutes: %w", err)
	}

	offset := (q.Page - 1) * q.Limit
	listQuery := fmt.Sprintf(`
		SELECT i.id, i.name, i.address, i.created_at, i.updated_at,
			(SELECT count(*) FROM students s WHERE s.institute_id = i.id) AS student_count,
			(SELECT count(*) FROM results r WHERE r.institute_id = i.id) AS result_count
		FROM institutes i
		%s
		ORDER BY i.created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, offset)

	institutes := []Institute{}
	if err := r.db.SelectContext(ctx, &institutes, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list institutes: %w", err)
	}
	return institutes, total, nil
}

func (r *repository) ListStudents(ctx context.Context, instituteID string) ([]StudentSummary, error) {
	students := []StudentSummary{}
	err := r.db.SelectContext(ctx, &students, `
		SELECT id, name, created_at
		FROM students
		WHERE institute_id = $1
		ORDER BY created_at DESC`, instituteID)
	if err != nil {
		return nil, fmt.Errorf("list institute students: %w", err)
	}
	return students, nil
}

func (r *repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM institutes WHERE lower(name) = lower($1))`, name)
	if err != nil {
		return false, fmt.Errorf("check institute name: %w", err)
	}
	return exists, nil
}

func (r *repository) Update(ctx context.Context, i *Institute) error {
	err := r.db.GetContext(ctx, i, `
		UPDATE institutes
		SET name = $1, address = $2, updated_at = now()
		WHERE id = $3
		RETURNING id, name, address, created_at, updated_at`,
		i.Name, i.Address, i.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrNotFound
		}
		if core.IsDuplicateKeyError(err) {
			return core.ConflictError("institute already exists")
		}
		return fmt.Errorf("update institute: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM institutes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete institute: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}
