// AngelaMos | 2026
// entity.go

package institute

import (
	"time"
)

type Institute struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Address   string    `db:"address"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Populated by list/detail queries.
	StudentCount int `db:"student_count"`
	ResultCount  int `db:"result_count"`
}

// StudentSummary is the trimmed student row embedded in the institute detail
// view.
type StudentSummary struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
