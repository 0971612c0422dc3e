package model

import "time"

// User is an identity record. Subject is the external auth provider's stable
// identifier; it is empty for accounts that predate subject linkage and is
// backfilled on their next authenticated request.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Subject   string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
