package repository

import (
	"context"

	"dataroom/internal/model"
)

// NameScope identifies the (data room, parent) pair within which sibling
// names must be unique. A nil ParentID means the data room root.
type NameScope struct {
	DataRoomID string
	ParentID   *string
}

// FolderRepository defines data access for folders.
type FolderRepository interface {
	// FindByIDForOwner returns the folder only when its data room is owned
	// by ownerID (join with data_rooms); otherwise ErrNotFound.
	FindByIDForOwner(ctx context.Context, id, ownerID string) (*model.Folder, error)

	// ListByDataRoom returns all folders of a room ordered by name.
	ListByDataRoom(ctx context.Context, dataRoomID string) ([]model.Folder, error)

	// ListChildrenWithCounts returns the child folders of scope with their
	// direct child-folder and file counts, computed in one aggregated query.
	ListChildrenWithCounts(ctx context.Context, scope NameScope) ([]model.FolderWithCounts, error)

	// ExistsName reports a case-insensitive sibling name match inside scope,
	// optionally excluding one folder id (for rename/move pre-flight).
	ExistsName(ctx context.Context, scope NameScope, name, excludeID string) (bool, error)

	// Create inserts a new folder.
	Create(ctx context.Context, f *model.Folder) (*model.Folder, error)

	// Rename updates the folder name.
	Rename(ctx context.Context, id, name string) (*model.Folder, error)

	// SetParent re-parents the folder; nil moves it to the room root.
	SetParent(ctx context.Context, id string, parentID *string) (*model.Folder, error)

	// PathToRoot returns the parent chain starting at id, leaf first.
	// The caller reverses it into a breadcrumb and enforces the depth cap.
	PathToRoot(ctx context.Context, id string, maxDepth int) ([]model.Crumb, error)

	// DeleteSubtree removes the folder, every descendant folder, and every
	// file under any of them in one transaction. It returns the storage
	// paths of the removed files so the caller can schedule blob deletion
	// after commit.
	DeleteSubtree(ctx context.Context, id string) ([]string, error)
}
