// AngelaMos | 2026
// dto.go

package result

import (
	"time"
)

type CreateRequest struct {
	StudentID   string  `json:"studentId" validate:"required,uuid"`
	CourseID    string  `json:"courseId" validate:"required,uuid"`
	InstituteID string  `json:"instituteId" validate:"required,uuid"`
	Marks       float64 `json:"marks" validate:"min=0,max=100"`
	Year        int     `json:"year" validate:"required,min=1900,max=2100"`
}

type UpdateRequest struct {
	Marks *float64 `json:"marks" validate:"omitempty,min=0,max=100"`
	Year  *int     `json:"year" validate:"omitempty,min=1900,max=2100"`
}

type ListQuery struct {
	Page        int
	Limit       int
	InstituteID string
	StudentID   string
	CourseID    string
	Year        int
}

type Response struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"studentId"`
	CourseID      string    `json:"courseId"`
	InstituteID   string    `json:"instituteId"`
	Marks         float64   `json:"marks"`
	Year          int       `json:"year"`
	StudentName   string    `json:"studentName,omitempty"`
	CourseName    string    `json:"courseName,omitempty"`
	InstituteName string    `json:"instituteName,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toResponse(res *Result) Response {
	resp := Response{
		ID:          res.ID,
		StudentID:   res.StudentID,
		CourseID:    res.CourseID,
		InstituteID: res.InstituteID,
		Marks:       res.Marks,
		Year:        res.Year,
		CreatedAt:   res.CreatedAt,
		UpdatedAt:   res.UpdatedAt,
	}
	if res.StudentName != nil {
		resp.StudentName = *res.StudentName
	}
	if res.CourseName != nil {
		resp.CourseName = *res.CourseName
	}
	if res.InstituteName != nil {
		resp.InstituteName = *res.InstituteName
	}
	return resp
}

func toResponses(results []Result) []Response {
	responses := make([]Response, len(results))
	for idx := range results {
		responses[idx] = toResponse(&results[idx])
	}
	return responses
}
