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

func roomTag(roomID string) string       { return "room:" + roomID }
func roomViewKey(roomID string) string   { return "room:" + roomID + ":view" }
func contentsKey(folderID string) string { return "folder:" + folderID + ":contents" }

// DataRoomView is the aggregated read model for a data room: the room
// itself plus its root-level folders (with per-folder counts) and files.
type DataRoomView struct {
	Room    model.DataRoom           `json:"dataRoom"`
	Folders []model.FolderWithCounts `json:"folders"`
	Files   []model.File             `json:"files"`
	Counts  model.EntityCounts       `json:"_count"`
}

// DataRoomService defines the use cases for data rooms.
type DataRoomService interface {
	// GetOrCreate returns the owner's data room, creating the default one
	// on first access.
	GetOrCreate(ctx context.Context, owner *model.User) (*model.DataRoom, error)

	// Get returns the aggregated room view. Reads are cached; any write to
	// the room invalidates the cached view.
	Get(ctx context.Context, id, ownerID string) (*DataRoomView, error)

	// SetName renames the owner's data room, creating it with the given
	// name when none exists yet.
	SetName(ctx context.Context, owner *model.User, name string) (*model.DataRoom, error)

	// Rename updates the room name.
	Rename(ctx context.Context, id, ownerID, name string) (*model.DataRoom, error)

	// Delete always refuses: every user keeps at least one data room.
	Delete(ctx context.Context, id, ownerID string) error
}

type dataRoomService struct {
	rooms   repository.DataRoomRepository
	folders repository.FolderRepository
	files   repository.FileRepository
	results cache.Cache
	ttl     time.Duration
	log     zerolog.Logger
}

// NewDataRoomService constructs a DataRoomService.
func NewDataRoomService(
	rooms repository.DataRoomRepository,
	folders repository.FolderRepository,
	files repository.FileRepository,
	results cache.Cache,
	ttl time.Duration,
	log zerolog.Logger,
) DataRoomService {
	return &dataRoomService{
		rooms:   rooms,
		folders: folders,
		files:   files,
		results: results,
		ttl:     ttl,
		log:     log,
	}
}

func (s *dataRoomService) GetOrCreate(ctx context.Context, owner *model.User) (*model.DataRoom, error) {
	room, err := s.rooms.FindByOwner(ctx, owner.ID)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find data room: %w", err)
	}

	created, err := s.rooms.Create(ctx, &model.DataRoom{
		ID:        uuid.NewString(),
		OwnerID:   owner.ID,
		Name:      defaultRoomName(owner),
		CreatedAt: time.Now().UTC(),
	})
	if err == nil {
		s.log.Info().Str("user_id", owner.ID).Str("data_room_id", created.ID).Msg("created default data room")
		return created, nil
	}
	if repository.IsConflict(err) {
		// Lost a race with a concurrent first request.
		return s.rooms.FindByOwner(ctx, owner.ID)
	}
	return nil, fmt.Errorf("create data room: %w", err)
}

func (s *dataRoomService) Get(ctx context.Context, id, ownerID string) (*DataRoomView, error) {
	key := roomViewKey(id)
	var cached DataRoomView
	if err := s.results.Get(ctx, key, &cached); err == nil && cached.Room.OwnerID == ownerID {
		return &cached, nil
	}

	room, err := s.rooms.FindByIDForOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDataRoomNotFound
		}
		return nil, fmt.Errorf("find data room: %w", err)
	}

	scope := repository.NameScope{DataRoomID: id}
	folders, err := s.folders.ListChildrenWithCounts(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list root folders: %w", err)
	}
	files, err := s.files.ListByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list root files: %w", err)
	}

	view := &DataRoomView{
		Room:    *room,
		Folders: folders,
		Files:   files,
		Counts:  model.EntityCounts{Folders: len(folders), Files: len(files)},
	}
	if err := s.results.Set(ctx, key, view, s.ttl, roomTag(id)); err != nil {
		s.log.Warn().Err(err).Str("data_room_id", id).Msg("cache room view")
	}
	return view, nil
}

func (s *dataRoomService) SetName(ctx context.Context, owner *model.User, name string) (*model.DataRoom, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	room, err := s.rooms.FindByOwner(ctx, owner.ID)
	if errors.Is(err, repository.ErrNotFound) {
		created, err := s.rooms.Create(ctx, &model.DataRoom{
			ID:        uuid.NewString(),
			OwnerID:   owner.ID,
			Name:      name,
			CreatedAt: time.Now().UTC(),
		})
		if err == nil {
			return created, nil
		}
		if repository.IsConflict(err) {
			room, err = s.rooms.FindByOwner(ctx, owner.ID)
			if err != nil {
				return nil, fmt.Errorf("find data room after race: %w", err)
			}
		} else {
			return nil, fmt.Errorf("create data room: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("find data room: %w", err)
	}

	renamed, err := s.rooms.Rename(ctx, room.ID, name)
	if err != nil {
		if errors.Is(err, repository.ErrDataRoomNameTaken) {
			return nil, ErrDataRoomNameTaken
		}
		return nil, fmt.Errorf("rename data room: %w", err)
	}
	s.invalidateRoom(ctx, room.ID)
	return renamed, nil
}

func (s *dataRoomService) Rename(ctx context.Context, id, ownerID, name string) (*model.DataRoom, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if _, err := s.rooms.FindByIDForOwner(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDataRoomNotFound
		}
		return nil, fmt.Errorf("find data room: %w", err)
	}

	room, err := s.rooms.Rename(ctx, id, name)
	if err != nil {
		if errors.Is(err, repository.ErrDataRoomNameTaken) {
			return nil, ErrDataRoomNameTaken
		}
		return nil, fmt.Errorf("rename data room: %w", err)
	}
	s.invalidateRoom(ctx, id)
	return room, nil
}

func (s *dataRoomService) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.rooms.FindByIDForOwner(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDataRoomNotFound
		}
		return fmt.Errorf("find data room: %w", err)
	}
	return ErrRoomDeleteRefused
}

func (s *dataRoomService) invalidateRoom(ctx context.Context, id string) {
	if err := s.results.InvalidateTags(ctx, roomTag(id)); err != nil {
		s.log.Warn().Err(err).Str("data_room_id", id).Msg("invalidate room cache")
	}
}

// defaultRoomName derives the first room's name from the owner's display
// name, falling back to the email local part.
func defaultRoomName(owner *model.User) string {
	name := strings.TrimSpace(owner.Name)
	if name == "" {
		name, _, _ = strings.Cut(owner.Email, "@")
	}
	if name == "" {
		name = "User"
	}
	return fmt.Sprintf("Data Room (%s)", name)
}
