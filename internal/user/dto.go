// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"omitempty,min=7,max=20"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,oneof=STUDENT ADMIN"`
	InstituteID     string `json:"instituteId" validate:"required_if=Role STUDENT,omitempty,uuid"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  int    `json:"code" validate:"required,min=100000,max=999999"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

type ChangeStatusRequest struct {
	IsBlocked bool `json:"isBlocked"`
}

type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	ProfileID  string    `json:"profileId,omitempty"`
	IsVerified bool      `json:"isVerified"`
	IsBlocked  bool      `json:"isBlocked"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ProfileResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	InstituteID string    `json:"instituteId,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

type VerifiedResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func toUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Role:       u.Role,
		ProfileID:  u.ProfileIDString(),
		IsVerified: u.IsVerified,
		IsBlocked:  u.IsBlocked,
		CreatedAt:  u.CreatedAt,
	}
}

func toProfileResponse(p *Profile, role string) ProfileResponse {
	resp := ProfileResponse{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Role:      role,
		CreatedAt: p.CreatedAt,
	}
	if p.Phone != nil {
		resp.Phone = *p.Phone
	}
	if p.InstituteID != nil {
		resp.InstituteID = *p.InstituteID
	}
	return resp
}
