// AngelaMos | 2026
// service.go

package student

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/acadmix/server/internal/config"
	"github.com/acadmix/server/internal/core"
	"github.com/acadmix/server/internal/user"
)

type Service struct {
	repo     Repository
	users    user.Repository
	security config.SecurityConfig
}

func NewService(repo Repository, users user.Repository, security config.SecurityConfig) *Service {
	return &Service{repo: repo, users: users, security: security}
}

// Create provisions a student account and its profile in one transaction.
// Admin-created students skip the email verification flow and come up
// verified, so the sweeper leaves them alone.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Response, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, core.ConflictError("student already exists with this email")
	}

	hash, err := core.HashPassword(req.Password, s.security.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         user.RoleStudent,
	}
	p := &user.Profile{
		ID:          uuid.NewString(),
		UserID:      u.ID,
		Name:        req.Name,
		Email:       email,
		InstituteID: &req.InstituteID,
	}
	if err := s.users.CreateWithProfile(ctx, u, p); err != nil {
		return nil, err
	}
	if _, err := s.users.MarkVerified(ctx, email); err != nil {
		return nil, fmt.Errorf("verify student account: %w", err)
	}

	return s.Get(ctx, p.ID)
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]Response, int, error) {
	students, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]Response, len(students))
	for idx := range students {
		responses[idx] = toResponse(&students[idx])
	}
	return responses, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Response, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("student not found")
		}
		return nil, err
	}
	resp := toResponse(st)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Response, error) {
	st, err := s.repo.Update(ctx, id, req.Name, req.InstituteID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("student not found")
		}
		return nil, err
	}
	resp := toResponse(st)
	return &resp, nil
}

// Delete removes the student together with its account row, mirroring how
// the pair was created.
func (s *Service) Delete(ctx context.Context, id string) error {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("student not found")
		}
		return err
	}

	u, err := s.users.GetByID(ctx, st.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("student account not found")
		}
		return err
	}
	return s.users.DeleteWithProfile(ctx, u)
}
