// AngelaMos | 2026
// handler.go

package user

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

// Routes mounts account management under /user. Registration and code
// verification are anonymous; the rest requires a token, and the
// admin-only endpoints additionally require an elevated role.
func (h *Handler) Routes(authn func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/create", h.Register)
	r.Post("/verify-code", h.VerifyCode)

	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Get("/my-profile", h.GetMyProfile)
		r.Delete("/delete-account", h.DeleteAccount)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(RoleAdmin, RoleSuperAdmin))
			r.Delete("/delete-user/{id}", h.DeleteUser)
			r.Patch("/change-status/{id}", h.ChangeUserStatus)
		})
	})

	return r
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	created, err := h.service.Register(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.Created(w, "user registered successfully, check your email for the verification code", created)
}

func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	verified, err := h.service.VerifyCode(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "account verified successfully", verified)
}

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := h.service.GetMyProfile(ctx, middleware.GetUserEmail(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "profile retrieved successfully", profile)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req DeleteAccountRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.DeleteAccount(r.Context(), middleware.GetUserID(r.Context()), req.Password); err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "account deleted successfully", nil)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.DeleteUser(ctx, middleware.GetUserRole(ctx), chi.URLParam(r, "id")); err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "user deleted successfully", nil)
}

func (h *Handler) ChangeUserStatus(w http.ResponseWriter, r *http.Request) {
	var req ChangeStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	updated, err := h.service.ChangeUserStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "user status changed successfully", updated)
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
