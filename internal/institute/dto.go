// AngelaMos | 2026
// dto.go

package institute

import (
	"time"
)

type CreateRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Address string `json:"address" validate:"required,min=2,max=500"`
}

type UpdateRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=200"`
	Address *string `json:"address" validate:"omitempty,min=2,max=500"`
}

type ListQuery struct {
	Page       int
	Limit      int
	SearchTerm string
}

type Response struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	StudentCount int       `json:"studentCount"`
	ResultCount  int       `json:"resultCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type DetailResponse struct {
	Response
	Students []StudentSummary `json:"students"`
}

func toResponse(i *Institute) Response {
	return Response{
		ID:           i.ID,
		Name:         i.Name,
		Address:      i.Address,
		StudentCount: i.StudentCount,
		ResultCount:  i.ResultCount,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}
