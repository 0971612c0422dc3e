package model

import "time"

// File is a leaf entity. FolderID == nil means the file sits at the data
// room root. StoragePath is the opaque key of the stored blob; the row is
// created only after the blob write succeeded.
type File struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	DataRoomID string    `json:"dataRoomId"`
	FolderID   *string   `json:"folderId"`
	UserID     string    `json:"userId"`
	Size       int64     `json:"fileSize"`
	MimeType   string    `json:"mimeType"`
	Path       string    `json:"filePath"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
