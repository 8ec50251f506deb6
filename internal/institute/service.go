// AngelaMos | 2026
// service.go

package institute

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

// Create checks the name first for a friendly error, but the authoritative
// guard is the unique index on lower(name): a concurrent duplicate surfaces
// from the insert as the same conflict.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Response, error) {
	exists, err := s.repo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("check institute name: %w", err)
	}
	if exists {
		return nil, core.ConflictError("institute already exists")
	}

	i := &Institute{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Address: req.Address,
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}
	resp := toResponse(i)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]Response, int, error) {
	institutes, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]Response, len(institutes))
	for idx := range institutes {
		responses[idx] = toResponse(&institutes[idx])
	}
	return responses, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (*DetailResponse, error) {
	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("institute not found")
		}
		return nil, err
	}
	students, err := s.repo.ListStudents(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DetailResponse{Response: toResponse(i), Students: students}, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Response, error) {
	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("institute not found")
		}
		return nil, err
	}

	if req.Name != nil {
		i.Name = *req.Name
	}
	if req.Address != nil {
		i.Address = *req.Address
	}
	if err := s.repo.Update(ctx, i); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("institute not found")
		}
		return nil, err
	}
	resp := toResponse(i)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("institute not found")
		}
		return err
	}
	return nil
}
