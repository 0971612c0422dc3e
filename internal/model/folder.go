package model

import "time"

// Folder is a node in a tree scoped to one DataRoom. ParentID == nil means
// the folder sits at the data room root. Sibling names are unique
// case-insensitively within the same (data room, parent) scope.
type Folder struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	DataRoomID string    `json:"dataRoomId"`
	ParentID   *string   `json:"parentId"`
	UserID     string    `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FolderCounts holds the number of direct child folders and files.
type FolderCounts struct {
	Children int `json:"children"`
	Files    int `json:"files"`
}

// FolderWithCounts pairs a folder with its direct child counts, computed by
// aggregate grouping rather than per-folder queries.
type FolderWithCounts struct {
	Folder
	Counts FolderCounts `json:"_count"`
}

// Crumb is one step of a root-to-leaf breadcrumb path.
type Crumb struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
}
