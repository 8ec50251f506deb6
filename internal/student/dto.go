// AngelaMos | 2026
// dto.go

package student

import (
	"time"
)

type CreateRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	InstituteID string `json:"instituteId" validate:"required,uuid"`
}

type UpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	InstituteID *string `json:"instituteId" validate:"omitempty,uuid"`
}

type ListQuery struct {
	Page        int
	Limit       int
	SearchTerm  string
	InstituteID string
}

type InstituteInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type AccountInfo struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsVerified bool   `json:"isVerified"`
	IsBlocked  bool   `json:"isBlocked"`
}

type Response struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Institute *InstituteInfo `json:"institute,omitempty"`
	Account   *AccountInfo   `json:"account,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func toResponse(s *Student) Response {
	resp := Response{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.InstituteID != nil && s.InstituteName != nil {
		resp.Institute = &InstituteInfo{ID: *s.InstituteID, Name: *s.InstituteName}
		if s.InstituteAddress != nil {
			resp.Institute.Address = *s.InstituteAddress
		}
	}
	if s.UserRole != nil {
		resp.Account = &AccountInfo{Email: s.Email, Role: *s.UserRole}
		if s.UserIsVerified != nil {
			resp.Account.IsVerified = *s.UserIsVerified
		}
		if s.UserIsBlocked != nil {
			resp.Account.IsBlocked = *s.UserIsBlocked
		}
	}
	return resp
}
