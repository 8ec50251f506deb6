// AngelaMos | 2026
// handler.go

package result

import (
	"encoding/json"
	"net/http"
	"strconv"

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

// Routes mounts result CRUD and the report endpoints under /result. Reads
// and reports are open; mutations are admin-only.
func (h *Handler) Routes(authn func(http.Handler) http.Handler, roles ...string) chi.Router {
	r := chi.NewRouter()

	r.Get("/get-all", h.GetAll)
	r.Get("/get-single/{id}", h.GetSingle)
	r.Get("/institute/{instituteId}", h.InstituteResults)
	r.Get("/top-courses/{year}", h.TopCoursesByYear)
	r.Get("/top-students", h.TopStudents)
	r.Get("/student/{studentId}", h.StudentResults)

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
	core.Created(w, "result created successfully", created)
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, limit := core.ParsePagination(r)
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	q := ListQuery{
		Page:        page,
		Limit:       limit,
		InstituteID: r.URL.Query().Get("instituteId"),
		StudentID:   r.URL.Query().Get("studentId"),
		CourseID:    r.URL.Query().Get("courseId"),
		Year:        year,
	}

	results, total, err := h.service.List(r.Context(), q)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.Paginated(w, "results retrieved successfully", results, page, limit, total)
}

func (h *Handler) GetSingle(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "result retrieved successfully", res)
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
	core.OK(w, "result updated successfully", updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "result deleted successfully", nil)
}

func (h *Handler) InstituteResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.InstituteResults(r.Context(), chi.URLParam(r, "instituteId"))
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "institute results retrieved successfully", results)
}

func (h *Handler) TopCoursesByYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		core.BadRequest(w, "year must be a number")
		return
	}

	ranks, err := h.service.TopCoursesByYear(r.Context(), year)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "top courses retrieved successfully", ranks)
}

func (h *Handler) TopStudents(w http.ResponseWriter, r *http.Request) {
	ranks, err := h.service.TopStudents(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "top students retrieved successfully", ranks)
}

func (h *Handler) StudentResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.StudentResults(r.Context(), chi.URLParam(r, "studentId"))
	if err != nil {
		core.JSONError(w, err)
		return
	}
	core.OK(w, "student results retrieved successfully", results)
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
