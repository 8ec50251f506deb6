// AngelaMos | 2026
// entity.go

package result

import (
	"time"
)

type Result struct {
	ID          string    `db:"id"`
	StudentID   string    `db:"student_id"`
	CourseID    string    `db:"course_id"`
	InstituteID string    `db:"institute_id"`
	Marks       float64   `db:"marks"`
	Year        int       `db:"year"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`

	StudentName   *string `db:"student_name"`
	CourseName    *string `db:"course_name"`
	InstituteName *string `db:"institute_name"`
}

// CourseRank is one row of the top-courses-by-year report: courses ordered
// by how many results they have in the year.
type CourseRank struct {
	CourseID    string `db:"course_id" json:"courseId"`
	CourseName  string `db:"course_name" json:"courseName"`
	ResultCount int    `db:"result_count" json:"resultCount"`
}

// StudentRank is one row of the top-students report: students ordered by
// average marks across all their results.
type StudentRank struct {
	StudentID     string  `db:"student_id" json:"studentId"`
	StudentName   string  `db:"student_name" json:"studentName"`
	Email         string  `db:"email" json:"email"`
	InstituteName *string `db:"institute_name" json:"instituteName,omitempty"`
	AverageMarks  float64 `db:"average_marks" json:"averageMarks"`
	ResultCount   int     `db:"result_count" json:"resultCount"`
}
