package repository

import (
	"context"

	"dataroom/internal/model"
)

// DataRoomRepository defines data access for data rooms.
type DataRoomRepository interface {
	// FindByOwner returns the owner's first data room, or ErrNotFound.
	FindByOwner(ctx context.Context, ownerID string) (*model.DataRoom, error)

	// FindByIDForOwner returns the room only when owned by ownerID;
	// a room owned by someone else is ErrNotFound.
	FindByIDForOwner(ctx context.Context, id, ownerID string) (*model.DataRoom, error)

	// Create inserts a new data room.
	Create(ctx context.Context, room *model.DataRoom) (*model.DataRoom, error)

	// Rename updates the room name.
	Rename(ctx context.Context, id, name string) (*model.DataRoom, error)
}
