// AngelaMos | 2026
// handler.go

package student

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

// Routes mounts student CRUD under /student. Reads are open; mutations are
// admin-only.
func (h *Handler) Routes(authn func(http.Handler) http.Handler, roles ...string) chi.Router {
	r := chi.NewRouter()

	r.Get("/get-all", h.GetAll)
	r.Get("/get-single/{id}", h.GetSingle)

	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Use(middleware.RequireRole(roles...))
		r.Post("/create", h.Create)
		r.Patch("/update/{id}", h.Update)
		r.Delete("/delete/{id}", h.Delete)
	})

	return r
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if !h.decode(w, r, &req) {
		return
	}

	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.Created(w, "student created successfully", created)
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, limit := core.ParsePagination(r)
	q := ListQuery{
		Page:        page,
		Limit:       limit,
		SearchTerm:  r.URL.Query().Get("searchTerm"),
		InstituteID: r.URL.Query().Get("instituteId"),
	}

	students, total, err := h.service.List(r.Context(), q)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.Paginated(w, "students retrieved successfully", students, page, limit, total)
}

func (h *Handler) GetSingle(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "student retrieved successfully", st)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if !h.decode(w, r, &req) {
		return
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "student updated successfully", updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "student deleted successfully", nil)
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
