package service

import (
	"context"
	"fmt"

	"dataroom/internal/repository"
)

// ConflictChecker runs the pre-flight sibling-name checks shared by folder
// and file writes. The checks are advisory: the functional unique indexes in
// the database remain authoritative, so callers must still translate a
// duplicate error from the store into the same conflict.
type ConflictChecker struct {
	folders repository.FolderRepository
	files   repository.FileRepository
}

// NewConflictChecker constructs a ConflictChecker.
func NewConflictChecker(folders repository.FolderRepository, files repository.FileRepository) *ConflictChecker {
	return &ConflictChecker{folders: folders, files: files}
}

// CheckFolderName returns ErrFolderNameTaken when a sibling folder already
// uses name (case-insensitive) inside scope. excludeID exempts the folder
// being renamed or moved.
func (c *ConflictChecker) CheckFolderName(ctx context.Context, scope repository.NameScope, name, excludeID string) error {
	taken, err := c.folders.ExistsName(ctx, scope, name, excludeID)
	if err != nil {
		return fmt.Errorf("check folder name: %w", err)
	}
	if taken {
		return ErrFolderNameTaken
	}
	return nil
}

// CheckFileName is the file counterpart of CheckFolderName.
func (c *ConflictChecker) CheckFileName(ctx context.Context, scope repository.NameScope, name, excludeID string) error {
	taken, err := c.files.ExistsName(ctx, scope, name, excludeID)
	if err != nil {
		return fmt.Errorf("check file name: %w", err)
	}
	if taken {
		return ErrFileNameTaken
	}
	return nil
}
