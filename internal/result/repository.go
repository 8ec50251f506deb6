// AngelaMos | 2026
// repository.go

package result

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/acadmix/server/internal/core"
)

const resultSelect = `
	SELECT r.id, r.student_id, r.course_id, r.institute_id, r.marks, r.year,
		r.created_at, r.updated_at,
		s.name AS student_name, c.name AS course_name, i.name AS institute_name
	FROM results r
	LEFT JOIN students s ON s.id = r.student_id
	LEFT JOIN courses c ON c.id = r.course_id
	LEFT JOIN institutes i ON i.id = r.institute_id`

type Repository interface {
	Create(ctx context.Context, res *Result) error
	GetByID(ctx context.Context, id string) (*Result, error)
	List(ctx context.Context, q ListQuery) ([]Result, int, error)
	Update(ctx context.Context, id string, marks *float64, year *int) (*Result, error)
	Delete(ctx context.Context, id string) error
	ListByInstitute(ctx context.Context, instituteID string) ([]Result, error)
	ListByStudent(ctx context.Context, studentID string) ([]Result, error)
	TopCoursesByYear(ctx context.Context, year, limit int) ([]CourseRank, error)
	TopStudents(ctx context.Context, limit int) ([]StudentRank, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *core.Database) Repository {
	return &repository{db: db.DB}
}

func (r *repository) Create(ctx context.Context, res *Result) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO results (id, student_id, course_id, institute_id, marks, year)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		res.ID, res.StudentID, res.CourseID, res.InstituteID, res.Marks, res.Year)
	if err != nil {
		if core.IsForeignKeyError(err) {
			return core.ValidationError("referenced student, course or institute does not exist")
		}
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Result, error) {
	var res Result
	err := r.db.GetContext(ctx, &res, resultSelect+` WHERE r.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get result: %w", err)
	}
	return &res, nil
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]Result, int, error) {
	conditions := []string{}
	args := []any{}
	addFilter := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if q.InstituteID != "" {
		addFilter("r.institute_id", q.InstituteID)
	}
	if q.StudentID != "" {
		addFilter("r.student_id", q.StudentID)
	}
	if q.CourseID != "" {
		addFilter("r.course_id", q.CourseID)
	}
	if q.Year != 0 {
		addFilter("r.year", q.Year)
	}
	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM results r %s`, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count results: %w", err)
	}

	offset := (q.Page - 1) * q.Limit
	listQuery := fmt.Sprintf(`%s
		%s
		ORDER BY r.marks DESC
		LIMIT $%d OFFSET $%d`, resultSelect, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, offset)

	results := []Result{}
	if err := r.db.SelectContext(ctx, &results, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list results: %w", err)
	}
	return results, total, nil
}

func (r *repository) Update(ctx context.Context, id string, marks *float64, year *int) (*Result, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE results
		SET marks = COALESCE($1, marks),
			year = COALESCE($2, year),
			updated_at = now()
		WHERE id = $3`, marks, year, id)
	if err != nil {
		return nil, fmt.Errorf("update result: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, core.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM results WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *repository) ListByInstitute(ctx context.Context, instituteID string) ([]Result, error) {
	results := []Result{}
	err := r.db.SelectContext(ctx, &results,
		resultSelect+` WHERE r.institute_id = $1 ORDER BY r.marks DESC`, instituteID)
	if err != nil {
		return nil, fmt.Errorf("list institute results: %w", err)
	}
	return results, nil
}

func (r *repository) ListByStudent(ctx context.Context, studentID string) ([]Result, error) {
	results := []Result{}
	err := r.db.SelectContext(ctx, &results,
		resultSelect+` WHERE r.student_id = $1 ORDER BY r.year DESC`, studentID)
	if err != nil {
		return nil, fmt.Errorf("list student results: %w", err)
	}
	return results, nil
}

func (r *repository) TopCoursesByYear(ctx context.Context, year, limit int) ([]CourseRank, error) {
	ranks := []CourseRank{}
	err := r.db.SelectContext(ctx, &ranks, `
		SELECT r.course_id, c.name AS course_name, count(*) AS result_count
		FROM results r
		JOIN courses c ON c.id = r.course_id
		WHERE r.year = $1
		GROUP BY r.course_id, c.name
		ORDER BY count(*) DESC
		LIMIT $2`, year, limit)
	if err != nil {
		return nil, fmt.Errorf("top courses by year: %w", err)
	}
	return ranks, nil
}

func (r *repository) TopStudents(ctx context.Context, limit int) ([]StudentRank, error) {
	ranks := []StudentRank{}
	err := r.db.SelectContext(ctx, &ranks, `
		SELECT r.student_id, s.name AS student_name, s.email,
			i.name AS institute_name,
			avg(r.marks) AS average_marks, count(*) AS result_count
		FROM results r
		JOIN students s ON s.id = r.student_id
		LEFT JOIN institutes i ON i.id = s.institute_id
		GROUP BY r.student_id, s.name, s.email, i.name
		ORDER BY avg(r.marks) DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top students: %w", err)
	}
	return ranks, nil
}
