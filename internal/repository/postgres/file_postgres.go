package postgres

import (
	"context"
	"database/sql"

	"dataroom/internal/model"
	"dataroom/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

const fileColumns = `id, name, data_room_id, folder_id, user_id, file_size, mime_type, storage_path, created_at, updated_at`

func scanFile(row *sql.Row) (*model.File, error) {
	var f model.File
	if err := row.Scan(&f.ID, &f.Name, &f.DataRoomID, &f.FolderID, &f.UserID,
		&f.Size, &f.MimeType, &f.Path, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (r *FilePostgres) queryFiles(ctx context.Context, q string, args ...any) ([]model.File, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	items := make([]model.File, 0)
	for rows.Next() {
		var f model.File
		if err := rows.Scan(&f.ID, &f.Name, &f.DataRoomID, &f.FolderID, &f.UserID,
			&f.Size, &f.MimeType, &f.Path, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, translate(err)
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return items, nil
}

// FindByIDForOwner returns the file only when created by ownerID.
func (r *FilePostgres) FindByIDForOwner(ctx context.Context, id, ownerID string) (*model.File, error) {
	q := `SELECT ` + fileColumns + ` FROM files WHERE id = $1 AND user_id = $2`
	return scanFile(r.db.QueryRowContext(ctx, q, id, ownerID))
}

// ListByDataRoom returns a user's files in a room, newest first.
func (r *FilePostgres) ListByDataRoom(ctx context.Context, dataRoomID, ownerID string) ([]model.File, error) {
	q := `SELECT ` + fileColumns + ` FROM files WHERE data_room_id = $1 AND user_id = $2 ORDER BY created_at DESC`
	return r.queryFiles(ctx, q, dataRoomID, ownerID)
}

// ListByFolder returns a user's files in a folder, newest first.
func (r *FilePostgres) ListByFolder(ctx context.Context, folderID, ownerID string) ([]model.File, error) {
	q := `SELECT ` + fileColumns + ` FROM files WHERE folder_id = $1 AND user_id = $2 ORDER BY created_at DESC`
	return r.queryFiles(ctx, q, folderID, ownerID)
}

// ListByScope returns files at scope ordered by name.
func (r *FilePostgres) ListByScope(ctx context.Context, scope repository.NameScope) ([]model.File, error) {
	q := `SELECT ` + fileColumns + ` FROM files WHERE data_room_id = $1 AND folder_id IS NOT DISTINCT FROM $2 ORDER BY name ASC`
	return r.queryFiles(ctx, q, scope.DataRoomID, scope.ParentID)
}

// ExistsName reports a case-insensitive sibling name match inside scope.
func (r *FilePostgres) ExistsName(ctx context.Context, scope repository.NameScope, name, excludeID string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM files
			WHERE data_room_id = $1
			  AND folder_id IS NOT DISTINCT FROM $2
			  AND lower(name) = lower($3)
			  AND ($4 = '' OR id::text <> $4)
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, scope.DataRoomID, scope.ParentID, name, excludeID).Scan(&exists); err != nil {
		return false, translate(err)
	}
	return exists, nil
}

// Create inserts a new file row. The uq_files_scope_name index catches
// racing conflict-free-looking creations.
func (r *FilePostgres) Create(ctx context.Context, f *model.File) (*model.File, error) {
	const q = `
		INSERT INTO files (id, name, data_room_id, folder_id, user_id, file_size, mime_type, storage_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING ` + fileColumns
	return scanFile(r.db.QueryRowContext(ctx, q,
		f.ID, f.Name, f.DataRoomID, f.FolderID, f.UserID, f.Size, f.MimeType, f.Path, f.CreatedAt))
}

// Rename updates the file name.
func (r *FilePostgres) Rename(ctx context.Context, id, name string) (*model.File, error) {
	const q = `
		UPDATE files SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + fileColumns
	return scanFile(r.db.QueryRowContext(ctx, q, id, name))
}

// Delete removes a file row. It does not return an error if the row does not exist.
func (r *FilePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM files WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return translate(err)
	}
	return nil
}
