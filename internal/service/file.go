package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dataroom/internal/cache"
	"dataroom/internal/model"
	"dataroom/internal/repository"
	"dataroom/internal/storage"
)

const (
	viewURLExpiry   = time.Minute
	uploadURLExpiry = 15 * time.Minute
)

// allowedFileTypes maps permitted extensions to their canonical MIME type.
var allowedFileTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// UploadFileInput carries the fields for a streamed upload.
type UploadFileInput struct {
	DataRoomID string
	FolderID   *string
	Name       string
	Size       int64
	MimeType   string
	Reader     io.Reader
}

// PresignUploadInput carries the fields for requesting a direct-upload URL.
type PresignUploadInput struct {
	DataRoomID string
	FolderID   *string
	Name       string
	Size       int64
}

// UploadTicket is a short-lived grant for uploading one blob straight to
// object storage, bypassing the API for the payload bytes.
type UploadTicket struct {
	URL  string `json:"uploadUrl"`
	Path string `json:"filePath"`
}

// CompleteUploadInput registers a blob uploaded through an UploadTicket.
type CompleteUploadInput struct {
	DataRoomID string
	FolderID   *string
	Name       string
	Size       int64
	MimeType   string
	Path       string
}

// FileService defines the use cases for files.
type FileService interface {
	// List returns the owner's files in a room, or in one folder when
	// folderID is set.
	List(ctx context.Context, ownerID, dataRoomID string, folderID *string) ([]model.File, error)

	// Upload streams the content into object storage and records the file.
	// The row is written only after the blob write succeeded; if the row
	// write fails the blob is removed again.
	Upload(ctx context.Context, ownerID string, in UploadFileInput) (*model.File, error)

	// PresignUpload validates the upload and returns a ticket for writing
	// the blob directly to storage.
	PresignUpload(ctx context.Context, ownerID string, in PresignUploadInput) (*UploadTicket, error)

	// CompleteUpload records a file whose blob arrived via an UploadTicket.
	CompleteUpload(ctx context.Context, ownerID string, in CompleteUploadInput) (*model.File, error)

	// ViewURL returns a short-lived signed download URL.
	ViewURL(ctx context.Context, fileID, ownerID string) (string, error)

	Rename(ctx context.Context, fileID, ownerID, name string) (*model.File, error)

	// Delete removes the row first, then schedules the blob for background
	// deletion.
	Delete(ctx context.Context, fileID, ownerID string) error
}

type fileService struct {
	files     repository.FileRepository
	folders   repository.FolderRepository
	rooms     repository.DataRoomRepository
	conflicts *ConflictChecker
	store     storage.Storage
	janitor   BlobScheduler
	results   cache.Cache
	maxSize   int64
	log       zerolog.Logger
}

// NewFileService constructs a FileService.
func NewFileService(
	files repository.FileRepository,
	folders repository.FolderRepository,
	rooms repository.DataRoomRepository,
	conflicts *ConflictChecker,
	store storage.Storage,
	janitor BlobScheduler,
	results cache.Cache,
	maxSize int64,
	log zerolog.Logger,
) FileService {
	return &fileService{
		files:     files,
		folders:   folders,
		rooms:     rooms,
		conflicts: conflicts,
		store:     store,
		janitor:   janitor,
		results:   results,
		maxSize:   maxSize,
		log:       log,
	}
}

func (s *fileService) List(ctx context.Context, ownerID, dataRoomID string, folderID *string) ([]model.File, error) {
	if dataRoomID == "" {
		return nil, ErrDataRoomRequired
	}
	if _, err := s.rooms.FindByIDForOwner(ctx, dataRoomID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDataRoomNotFound
		}
		return nil, fmt.Errorf("find data room: %w", err)
	}
	if folderID != nil {
		return s.files.ListByFolder(ctx, *folderID, ownerID)
	}
	return s.files.ListByDataRoom(ctx, dataRoomID, ownerID)
}

func (s *fileService) Upload(ctx context.Context, ownerID string, in UploadFileInput) (*model.File, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	mimeType, err := s.validateUpload(in.Name, in.Size)
	if err != nil {
		return nil, err
	}
	if in.MimeType != "" {
		mimeType = in.MimeType
	}
	scope, err := s.uploadScope(ctx, ownerID, in.DataRoomID, in.FolderID)
	if err != nil {
		return nil, err
	}
	if err := s.conflicts.CheckFileName(ctx, *scope, in.Name, ""); err != nil {
		return nil, err
	}

	key := blobKey(in.DataRoomID, in.Name)
	info, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: mimeType,
		Metadata:    map[string]string{"original-filename": in.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	file, err := s.createRecord(ctx, ownerID, in.DataRoomID, in.FolderID, in.Name, info.Size, mimeType, key)
	if err != nil {
		// Roll the blob back so a failed registration leaves nothing
		// behind in the bucket.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Warn().Err(delErr).Str("path", key).Msg("rollback blob delete failed")
		}
		return nil, err
	}
	return file, nil
}

func (s *fileService) PresignUpload(ctx context.Context, ownerID string, in PresignUploadInput) (*UploadTicket, error) {
	if _, err := s.validateUpload(in.Name, in.Size); err != nil {
		return nil, err
	}
	scope, err := s.uploadScope(ctx, ownerID, in.DataRoomID, in.FolderID)
	if err != nil {
		return nil, err
	}
	if err := s.conflicts.CheckFileName(ctx, *scope, in.Name, ""); err != nil {
		return nil, err
	}

	key := blobKey(in.DataRoomID, in.Name)
	url, err := s.store.PresignPut(ctx, key, uploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &UploadTicket{URL: url, Path: key}, nil
}

func (s *fileService) CompleteUpload(ctx context.Context, ownerID string, in CompleteUploadInput) (*model.File, error) {
	mimeType, err := s.validateUpload(in.Name, in.Size)
	if err != nil {
		return nil, err
	}
	if in.MimeType != "" {
		mimeType = in.MimeType
	}
	if in.Path == "" {
		return nil, fmt.Errorf("file path is required: %w", ErrFileNotFound)
	}
	scope, err := s.uploadScope(ctx, ownerID, in.DataRoomID, in.FolderID)
	if err != nil {
		return nil, err
	}
	if err := s.conflicts.CheckFileName(ctx, *scope, in.Name, ""); err != nil {
		return nil, err
	}
	return s.createRecord(ctx, ownerID, in.DataRoomID, in.FolderID, in.Name, in.Size, mimeType, in.Path)
}

func (s *fileService) ViewURL(ctx context.Context, fileID, ownerID string) (string, error) {
	file, err := s.ownedFile(ctx, fileID, ownerID)
	if err != nil {
		return "", err
	}
	url, err := s.store.PresignGet(ctx, file.Path, viewURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

func (s *fileService) Rename(ctx context.Context, fileID, ownerID, name string) (*model.File, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	file, err := s.ownedFile(ctx, fileID, ownerID)
	if err != nil {
		return nil, err
	}

	scope := repository.NameScope{DataRoomID: file.DataRoomID, ParentID: file.FolderID}
	if err := s.conflicts.CheckFileName(ctx, scope, name, fileID); err != nil {
		return nil, err
	}

	renamed, err := s.files.Rename(ctx, fileID, name)
	if err != nil {
		if errors.Is(err, repository.ErrFileNameTaken) {
			return nil, ErrFileNameTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("rename file: %w", err)
	}
	s.invalidateRoom(ctx, file.DataRoomID)
	return renamed, nil
}

func (s *fileService) Delete(ctx context.Context, fileID, ownerID string) error {
	file, err := s.ownedFile(ctx, fileID, ownerID)
	if err != nil {
		return err
	}
	if err := s.files.Delete(ctx, fileID); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	// Row is gone; the blob goes away in the background.
	s.janitor.Schedule(file.Path)
	s.invalidateRoom(ctx, file.DataRoomID)
	return nil
}

func (s *fileService) ownedFile(ctx context.Context, fileID, ownerID string) (*model.File, error) {
	file, err := s.files.FindByIDForOwner(ctx, fileID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("find file: %w", err)
	}
	return file, nil
}

// validateUpload enforces the allowed type set and size limit, returning the
// canonical MIME type for the extension.
func (s *fileService) validateUpload(name string, size int64) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	mimeType, ok := allowedFileTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return "", ErrFileTypeNotAllowed
	}
	if s.maxSize > 0 && size > s.maxSize {
		return "", ErrFileTooLarge
	}
	return mimeType, nil
}

// uploadScope verifies room and optional folder ownership and returns the
// sibling-name scope the file will land in.
func (s *fileService) uploadScope(ctx context.Context, ownerID, dataRoomID string, folderID *string) (*repository.NameScope, error) {
	if dataRoomID == "" {
		return nil, ErrDataRoomRequired
	}
	if _, err := s.rooms.FindByIDForOwner(ctx, dataRoomID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDataRoomNotFound
		}
		return nil, fmt.Errorf("find data room: %w", err)
	}
	if folderID != nil {
		folder, err := s.folders.FindByIDForOwner(ctx, *folderID, ownerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrFolderNotFound
			}
			return nil, fmt.Errorf("find folder: %w", err)
		}
		if folder.DataRoomID != dataRoomID {
			return nil, ErrFolderNotFound
		}
	}
	return &repository.NameScope{DataRoomID: dataRoomID, ParentID: folderID}, nil
}

func (s *fileService) createRecord(ctx context.Context, ownerID, dataRoomID string, folderID *string, name string, size int64, mimeType, path string) (*model.File, error) {
	file, err := s.files.Create(ctx, &model.File{
		ID:         uuid.NewString(),
		Name:       name,
		DataRoomID: dataRoomID,
		FolderID:   folderID,
		UserID:     ownerID,
		Size:       size,
		MimeType:   mimeType,
		Path:       path,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrFileNameTaken):
			return nil, ErrFileNameTaken
		case errors.Is(err, repository.ErrInvalidReference):
			return nil, ErrFolderNotFound
		default:
			return nil, fmt.Errorf("save file record: %w", err)
		}
	}
	s.invalidateRoom(ctx, dataRoomID)
	return file, nil
}

func (s *fileService) invalidateRoom(ctx context.Context, roomID string) {
	if err := s.results.InvalidateTags(ctx, roomTag(roomID)); err != nil {
		s.log.Warn().Err(err).Str("data_room_id", roomID).Msg("invalidate room cache")
	}
}

// blobKey generates the storage key for a new upload: room-scoped, random
// stem, original extension preserved.
func blobKey(dataRoomID, name string) string {
	return fmt.Sprintf("rooms/%s/%s%s", dataRoomID, uuid.NewString(), strings.ToLower(filepath.Ext(name)))
}
