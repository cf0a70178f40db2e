package model

import "time"

// Genre is a standalone catalog entity. Movies reference a genre at
// write time but embed a value snapshot of it (see Movie), so renaming
// a genre never rewrites existing movies.
type Genre struct {
	ID        uint64    `json:"id"`   // genres.id
	Name      string    `json:"name"` // genres.name
	CreatedAt time.Time `json:"-"`    // genres.created_at
	UpdatedAt time.Time `json:"-"`    // genres.updated_at
}
