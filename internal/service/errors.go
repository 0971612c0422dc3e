package service

import "errors"

// Use-case level failures. The HTTP layer owns the mapping to status codes
// and user-facing messages.
var (
	ErrDataRoomNotFound = errors.New("data room not found")
	ErrFolderNotFound   = errors.New("folder not found")
	ErrFileNotFound     = errors.New("file not found")
	ErrParentNotFound   = errors.New("parent folder not found")

	ErrDataRoomNameTaken = errors.New("a data room with this name already exists")
	ErrFolderNameTaken   = errors.New("a folder with this name already exists in this location")
	ErrFileNameTaken     = errors.New("a file with this name already exists in this location")

	ErrNameRequired      = errors.New("name is required")
	ErrDataRoomRequired  = errors.New("data room id is required")
	ErrRoomDeleteRefused = errors.New("a data room cannot be deleted")
	ErrMoveCycle         = errors.New("a folder cannot be moved into itself or its descendants")

	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrFileTooLarge       = errors.New("file exceeds the maximum allowed size")
	ErrReaderNil          = errors.New("reader is nil")
)
