// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-playground/validator/v10"
)

// includeStack controls whether error responses carry a stack trace.
// Enabled outside production only; set once during bootstrap.
var includeStack bool

func SetDevMode(dev bool) {
	includeStack = dev
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Meta    *Meta  `json:"meta,omitempty"`
	Data    any    `json:"data"`
}

type ErrorEnvelope struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message"`
	ErrorMessages []ErrorMessage `json:"errorMessages"`
	Stack         string         `json:"stack,omitempty"`
}

func OK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, SuccessEnvelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, SuccessEnvelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Paginated(
	w http.ResponseWriter,
	message string,
	data any,
	page, limit, total int,
) {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	writeJSON(w, http.StatusOK, SuccessEnvelope{
		Success: true,
		Message: message,
		Meta: &Meta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
		Data: data,
	})
}

// JSONError is the single boundary translator: every error kind, typed or
// raw, becomes the uniform {success, message, errorMessages, stack?} shape.
func JSONError(w http.ResponseWriter, err error) {
	status := StatusForError(err)

	message := "something went wrong"
	var msgs []ErrorMessage

	var appErr *AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		msgs = appErr.Messages
	} else if status != http.StatusInternalServerError {
		message = err.Error()
	}

	if status == http.StatusInternalServerError {
		slog.Error("internal error", "error", err)
	}

	if msgs == nil {
		msgs = []ErrorMessage{{Path: "", Message: message}}
	}

	envelope := ErrorEnvelope{
		Success:       false,
		Message:       message,
		ErrorMessages: msgs,
	}

	if includeStack {
		envelope.Stack = string(debug.Stack())
	}

	writeJSON(w, status, envelope)
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, ValidationError(message))
}

func ValidationFailed(w http.ResponseWriter, err error) {
	JSONError(w, ValidationErrors("validation failed", FormatValidationError(err)))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource+" not found"))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func InternalServerError(w http.ResponseWriter, err error) {
	JSONError(w, err)
}

// FormatValidationError flattens validator.v10 failures into the envelope's
// errorMessages shape.
func FormatValidationError(err error) []ErrorMessage {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []ErrorMessage{{Path: "", Message: err.Error()}}
	}

	msgs := make([]ErrorMessage, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		msgs = append(msgs, ErrorMessage{
			Path:    fieldErr.Field(),
			Message: validationMessage(fieldErr),
		})
	}

	return msgs
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "len":
		return fe.Field() + " must be exactly " + fe.Param() + " characters"
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "lte":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(data)
}
