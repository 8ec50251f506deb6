// AngelaMos | 2026
// entity.go

package course

import (
	"time"
)

type Course struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
