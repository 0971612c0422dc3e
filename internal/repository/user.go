package repository

import (
	"context"

	"dataroom/internal/model"
)

// UserRepository defines data access for users using SQL queries only.
// No business logic here — strictly persistence operations.
type UserRepository interface {
	// FindByID returns a user by primary key.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindBySubject returns the user linked to an external auth subject.
	FindBySubject(ctx context.Context, subject string) (*model.User, error)

	// FindByEmail returns a user by email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// SetSubject backfills the auth subject on an existing user record.
	SetSubject(ctx context.Context, id, subject string) error

	// CreateWithDataRoom inserts the user and their first data room in a
	// single transaction, so a racing first request cannot produce a user
	// without a room or two rooms for one user.
	CreateWithDataRoom(ctx context.Context, user *model.User, room *model.DataRoom) (*model.User, *model.DataRoom, error)
}
