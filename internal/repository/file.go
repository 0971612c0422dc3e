package repository

import (
	"context"

	"dataroom/internal/model"
)

// FileRepository defines data access for files.
type FileRepository interface {
	// FindByIDForOwner returns the file only when owned by ownerID.
	FindByIDForOwner(ctx context.Context, id, ownerID string) (*model.File, error)

	// ListByDataRoom returns a user's files in a room, newest first.
	ListByDataRoom(ctx context.Context, dataRoomID, ownerID string) ([]model.File, error)

	// ListByFolder returns a user's files in a folder, newest first.
	ListByFolder(ctx context.Context, folderID, ownerID string) ([]model.File, error)

	// ListByScope returns files at scope ordered by name (room root when
	// scope.ParentID is nil).
	ListByScope(ctx context.Context, scope NameScope) ([]model.File, error)

	// ExistsName reports a case-insensitive sibling name match inside scope,
	// optionally excluding one file id.
	ExistsName(ctx context.Context, scope NameScope, name, excludeID string) (bool, error)

	// Create inserts a new file record.
	Create(ctx context.Context, f *model.File) (*model.File, error)

	// Rename updates the file name.
	Rename(ctx context.Context, id, name string) (*model.File, error)

	// Delete removes a file row. Missing rows are not an error.
	Delete(ctx context.Context, id string) error
}
