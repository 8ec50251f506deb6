// AngelaMos | 2026
// service.go

package result

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/acadmix/server/internal/core"
)

const (
	topCoursesLimit  = 5
	topStudentsLimit = 10
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Response, error) {
	res := &Result{
		ID:          uuid.NewString(),
		StudentID:   req.StudentID,
		CourseID:    req.CourseID,
		InstituteID: req.InstituteID,
		Marks:       req.Marks,
		Year:        req.Year,
	}
	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return s.Get(ctx, res.ID)
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]Response, int, error) {
	results, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(results), total, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Response, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("result not found")
		}
		return nil, err
	}
	resp := toResponse(res)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Response, error) {
	res, err := s.repo.Update(ctx, id, req.Marks, req.Year)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("result not found")
		}
		return nil, err
	}
	resp := toResponse(res)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("result not found")
		}
		return err
	}
	return nil
}

// InstituteResults returns every result for an institute ordered by marks,
// highest first.
func (s *Service) InstituteResults(ctx context.Context, instituteID string) ([]Response, error) {
	results, err := s.repo.ListByInstitute(ctx, instituteID)
	if err != nil {
		return nil, err
	}
	return toResponses(results), nil
}

// StudentResults returns a student's results ordered by year, most recent
// first.
func (s *Service) StudentResults(ctx context.Context, studentID string) ([]Response, error) {
	results, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return toResponses(results), nil
}

// TopCoursesByYear ranks the five courses with the most results in a year.
func (s *Service) TopCoursesByYear(ctx context.Context, year int) ([]CourseRank, error) {
	return s.repo.TopCoursesByYear(ctx, year, topCoursesLimit)
}

// TopStudents ranks the ten students with the highest average marks.
func (s *Service) TopStudents(ctx context.Context) ([]StudentRank, error) {
	return s.repo.TopStudents(ctx, topStudentsLimit)
}
