// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/acadmix/server/internal/core"
	"github.com/acadmix/server/internal/middleware"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service, validate *validator.Validate) *Handler {
	return &Handler{service: service, validate: validate}
}

// Routes mounts the credential lifecycle under /auth. Everything except
// change-password is anonymous; authn is the whole point of these endpoints.
func (h *Handler) Routes(authn func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Post("/refresh-token", h.RefreshToken)
	r.Post("/forget-password", h.ForgotPassword)
	r.Post("/verify-reset-otp", h.VerifyResetOtp)
	r.Post("/reset-password", h.ResetPassword)
	r.Post("/resend-reset-code", h.ResendResetCode)
	r.Post("/resend-verify-code", h.ResendVerifyCode)

	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Post("/change-password", h.ChangePassword)
	})

	return r
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	tokens, err := h.service.Login(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "user logged in successfully", tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, err := h.service.RefreshAccessToken(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "access token refreshed successfully", token)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	tokens, err := h.service.ChangePassword(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "password changed successfully", tokens)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req); err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "reset code sent to your email", nil)
}

func (h *Handler) VerifyResetOtp(w http.ResponseWriter, r *http.Request) {
	var req VerifyResetOtpRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.VerifyResetOtp(r.Context(), req); err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "reset otp verified successfully", nil)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	tokens, err := h.service.ResetPassword(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "password reset successfully", tokens)
}

func (h *Handler) ResendResetCode(w http.ResponseWriter, r *http.Request) {
	var req ResendCodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ResendResetCode(r.Context(), req); err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "reset code resent to your email", nil)
}

func (h *Handler) ResendVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req ResendCodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ResendVerifyCode(r.Context(), req); err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "verification code resent to your email", nil)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		core.ValidationFailed(w, err)
		return false
	}
	return true
}
