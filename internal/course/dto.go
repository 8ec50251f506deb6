// AngelaMos | 2026
// dto.go

package course

import (
	"time"
)

type CreateRequest struct {
	Name string `json:"name" validate:"required,min=2,max=200"`
}

type UpdateRequest struct {
	Name *string `json:"name" validate:"omitempty,min=2,max=200"`
}

type ListQuery struct {
	Page       int
	Limit      int
	SearchTerm string
}

type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(c *Course) Response {
	return Response{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
