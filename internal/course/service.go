// AngelaMos | 2026
// service.go

package course

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/acadmix/server/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create treats course names as case-insensitively unique. The pre-check
// gives the friendly error; the unique index on lower(name) is what actually
// guarantees it under concurrency.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Response, error) {
	exists, err := s.repo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("check course name: %w", err)
	}
	if exists {
		return nil, core.ConflictError("course already exists with this name")
	}

	c := &Course{ID: uuid.NewString(), Name: req.Name}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := toResponse(c)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]Response, int, error) {
	courses, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]Response, len(courses))
	for idx := range courses {
		responses[idx] = toResponse(&courses[idx])
	}
	return responses, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Response, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("course not found")
		}
		return nil, err
	}
	resp := toResponse(c)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Response, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("course not found")
		}
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("course not found")
		}
		return nil, err
	}
	resp := toResponse(c)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("course not found")
		}
		return err
	}
	return nil
}
