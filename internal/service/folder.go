package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dataroom/internal/cache"
	"dataroom/internal/model"
	"dataroom/internal/repository"
)

// maxTreeDepth caps breadcrumb and ancestor walks. A chain longer than this
// means corrupt data (a cycle written outside the API), not a deep tree.
const maxTreeDepth = 100

// BlobScheduler queues object-storage deletions to run after the database
// transaction that removed the rows has committed.
type BlobScheduler interface {
	Schedule(paths ...string)
}

// FolderContents is the aggregated read model for one folder: the folder,
// its child folders with counts, and its files.
type FolderContents struct {
	Folder  model.Folder             `json:"folder"`
	Folders []model.FolderWithCounts `json:"folders"`
	Files   []model.File             `json:"files"`
}

// CreateFolderInput carries the fields for creating a folder.
type CreateFolderInput struct {
	DataRoomID string
	ParentID   *string
	Name       string
}

// FolderService defines the use cases for folders.
type FolderService interface {
	// List returns every folder of a room the owner can see.
	List(ctx context.Context, dataRoomID, ownerID string) ([]model.Folder, error)

	// Contents returns the aggregated folder view. Reads are cached with
	// the room tag.
	Contents(ctx context.Context, folderID, ownerID string) (*FolderContents, error)

	// Tree returns the breadcrumb from the room root down to the folder.
	Tree(ctx context.Context, folderID, ownerID string) ([]model.Crumb, error)

	Create(ctx context.Context, ownerID string, in CreateFolderInput) (*model.Folder, error)
	Rename(ctx context.Context, folderID, ownerID, name string) (*model.Folder, error)

	// Move re-parents a folder within its room; nil parent moves it to the
	// root. Moving a folder under itself or a descendant is rejected.
	Move(ctx context.Context, folderID, ownerID string, newParentID *string) (*model.Folder, error)

	// Delete removes the folder and everything under it, then schedules
	// the orphaned blobs for background deletion.
	Delete(ctx context.Context, folderID, ownerID string) error
}

type folderService struct {
	folders   repository.FolderRepository
	files     repository.FileRepository
	rooms     repository.DataRoomRepository
	conflicts *ConflictChecker
	janitor   BlobScheduler
	results   cache.Cache
	ttl       time.Duration
	log       zerolog.Logger
}

// NewFolderService constructs a FolderService.
func NewFolderService(
	folders repository.FolderRepository,
	files repository.FileRepository,
	rooms repository.DataRoomRepository,
	conflicts *ConflictChecker,
	janitor BlobScheduler,
	results cache.Cache,
	ttl time.Duration,
	log zerolog.Logger,
) FolderService {
	return &folderService{
		folders:   folders,
		files:     files,
		rooms:     rooms,
		conflicts: conflicts,
		janitor:   janitor,
		results:   results,
		ttl:       ttl,
		log:       log,
	}
}

func (s *folderService) List(ctx context.Context, dataRoomID, ownerID string) ([]model.Folder, error) {
	if dataRoomID == "" {
		return nil, ErrDataRoomRequired
	}
	if _, err := s.rooms.FindByIDForOwner(ctx, dataRoomID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDataRoomNotFound
		}
		return nil, fmt.Errorf("find data room: %w", err)
	}
	return s.folders.ListByDataRoom(ctx, dataRoomID)
}

func (s *folderService) Contents(ctx context.Context, folderID, ownerID string) (*FolderContents, error) {
	folder, err := s.ownedFolder(ctx, folderID, ownerID)
	if err != nil {
		return nil, err
	}

	key := contentsKey(folderID)
	var cached FolderContents
	if err := s.results.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	scope := repository.NameScope{DataRoomID: folder.DataRoomID, ParentID: &folder.ID}
	children, err := s.folders.ListChildrenWithCounts(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list child folders: %w", err)
	}
	files, err := s.files.ListByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list folder files: %w", err)
	}

	contents := &FolderContents{Folder: *folder, Folders: children, Files: files}
	if err := s.results.Set(ctx, key, contents, s.ttl, roomTag(folder.DataRoomID)); err != nil {
		s.log.Warn().Err(err).Str("folder_id", folderID).Msg("cache folder contents")
	}
	return contents, nil
}

func (s *folderService) Tree(ctx context.Context, folderID, ownerID string) ([]model.Crumb, error) {
	if _, err := s.ownedFolder(ctx, folderID, ownerID); err != nil {
		return nil, err
	}

	chain, err := s.folders.PathToRoot(ctx, folderID, maxTreeDepth)
	if err != nil {
		if errors.Is(err, repository.ErrDepthExceeded) {
			return nil, fmt.Errorf("folder %s: ancestor chain exceeds %d levels: %w", folderID, maxTreeDepth, err)
		}
		return nil, fmt.Errorf("walk folder ancestors: %w", err)
	}

	// The repository walks leaf to root; the breadcrumb reads root first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func (s *folderService) Create(ctx context.Context, ownerID string, in CreateFolderInput) (*model.Folder, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, ErrNameRequired
	}
	if in.DataRoomID == "" {
		return nil, ErrDataRoomRequired
	}
	if _, err := s.rooms.FindByIDForOwner(ctx, in.DataRoomID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDataRoomNotFound
		}
		return nil, fmt.Errorf("find data room: %w", err)
	}
	if in.ParentID != nil {
		parent, err := s.ownedFolder(ctx, *in.ParentID, ownerID)
		if err != nil {
			return nil, ErrParentNotFound
		}
		if parent.DataRoomID != in.DataRoomID {
			return nil, ErrParentNotFound
		}
	}

	scope := repository.NameScope{DataRoomID: in.DataRoomID, ParentID: in.ParentID}
	if err := s.conflicts.CheckFolderName(ctx, scope, in.Name, ""); err != nil {
		return nil, err
	}

	folder, err := s.folders.Create(ctx, &model.Folder{
		ID:         uuid.NewString(),
		DataRoomID: in.DataRoomID,
		ParentID:   in.ParentID,
		UserID:     ownerID,
		Name:       in.Name,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, s.translateFolderErr(err)
	}
	s.invalidateRoom(ctx, in.DataRoomID)
	return folder, nil
}

func (s *folderService) Rename(ctx context.Context, folderID, ownerID, name string) (*model.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	folder, err := s.ownedFolder(ctx, folderID, ownerID)
	if err != nil {
		return nil, err
	}

	scope := repository.NameScope{DataRoomID: folder.DataRoomID, ParentID: folder.ParentID}
	if err := s.conflicts.CheckFolderName(ctx, scope, name, folderID); err != nil {
		return nil, err
	}

	renamed, err := s.folders.Rename(ctx, folderID, name)
	if err != nil {
		return nil, s.translateFolderErr(err)
	}
	s.invalidateRoom(ctx, folder.DataRoomID)
	return renamed, nil
}

func (s *folderService) Move(ctx context.Context, folderID, ownerID string, newParentID *string) (*model.Folder, error) {
	folder, err := s.ownedFolder(ctx, folderID, ownerID)
	if err != nil {
		return nil, err
	}

	if newParentID != nil {
		if *newParentID == folderID {
			return nil, ErrMoveCycle
		}
		parent, err := s.ownedFolder(ctx, *newParentID, ownerID)
		if err != nil {
			return nil, ErrParentNotFound
		}
		if parent.DataRoomID != folder.DataRoomID {
			return nil, ErrParentNotFound
		}
		// Reject moving a folder under its own subtree: if the moved
		// folder appears anywhere on the destination's ancestor chain,
		// the move would detach the subtree into a cycle.
		chain, err := s.folders.PathToRoot(ctx, parent.ID, maxTreeDepth)
		if err != nil {
			return nil, fmt.Errorf("walk destination ancestors: %w", err)
		}
		for _, crumb := range chain {
			if crumb.ID == folderID {
				return nil, ErrMoveCycle
			}
		}
	}

	scope := repository.NameScope{DataRoomID: folder.DataRoomID, ParentID: newParentID}
	if err := s.conflicts.CheckFolderName(ctx, scope, folder.Name, folderID); err != nil {
		return nil, err
	}

	moved, err := s.folders.SetParent(ctx, folderID, newParentID)
	if err != nil {
		return nil, s.translateFolderErr(err)
	}
	s.invalidateRoom(ctx, folder.DataRoomID)
	return moved, nil
}

func (s *folderService) Delete(ctx context.Context, folderID, ownerID string) error {
	folder, err := s.ownedFolder(ctx, folderID, ownerID)
	if err != nil {
		return err
	}

	paths, err := s.folders.DeleteSubtree(ctx, folderID)
	if err != nil {
		return fmt.Errorf("delete folder subtree: %w", err)
	}
	// Rows are gone; blob deletion is best-effort from here.
	s.janitor.Schedule(paths...)
	s.log.Info().Str("folder_id", folderID).Int("blobs", len(paths)).Msg("deleted folder subtree")
	s.invalidateRoom(ctx, folder.DataRoomID)
	return nil
}

func (s *folderService) ownedFolder(ctx context.Context, folderID, ownerID string) (*model.Folder, error) {
	folder, err := s.folders.FindByIDForOwner(ctx, folderID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, fmt.Errorf("find folder: %w", err)
	}
	return folder, nil
}

func (s *folderService) translateFolderErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrFolderNameTaken):
		return ErrFolderNameTaken
	case errors.Is(err, repository.ErrInvalidReference):
		return ErrParentNotFound
	case errors.Is(err, repository.ErrNotFound):
		return ErrFolderNotFound
	default:
		return err
	}
}

func (s *folderService) invalidateRoom(ctx context.Context, roomID string) {
	if err := s.results.InvalidateTags(ctx, roomTag(roomID)); err != nil {
		s.log.Warn().Err(err).Str("data_room_id", roomID).Msg("invalidate room cache")
	}
}
