package model

import "time"

// DataRoom is a user's top-level container. Every user has at least one;
// the last one can never be deleted.
type DataRoom struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EntityCounts carries aggregate child counts for list projections.
type EntityCounts struct {
	Folders int `json:"folders"`
	Files   int `json:"files"`
}
