package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"dataroom/internal/model"
	"dataroom/internal/repository"
)

// FolderPostgres is a PostgreSQL implementation of repository.FolderRepository.
type FolderPostgres struct {
	db *sql.DB
}

// NewFolderPostgres creates a new FolderPostgres repository.
func NewFolderPostgres(db *sql.DB) *FolderPostgres {
	return &FolderPostgres{db: db}
}

var _ repository.FolderRepository = (*FolderPostgres)(nil)

const folderColumns = `id, name, data_room_id, parent_id, user_id, created_at, updated_at`

// subtree traversal stops here; a legitimate tree never gets close.
const maxSubtreeDepth = 128

func scanFolder(row *sql.Row) (*model.Folder, error) {
	var f model.Folder
	if err := row.Scan(&f.ID, &f.Name, &f.DataRoomID, &f.ParentID, &f.UserID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

// FindByIDForOwner returns the folder only when its data room belongs to
// ownerID. A folder in someone else's room is indistinguishable from a
// missing one.
func (r *FolderPostgres) FindByIDForOwner(ctx context.Context, id, ownerID string) (*model.Folder, error) {
	const q = `
		SELECT f.id, f.name, f.data_room_id, f.parent_id, f.user_id, f.created_at, f.updated_at
		FROM folders f
		JOIN data_rooms d ON d.id = f.data_room_id
		WHERE f.id = $1 AND d.user_id = $2
	`
	return scanFolder(r.db.QueryRowContext(ctx, q, id, ownerID))
}

// ListByDataRoom returns all folders of a room ordered by name.
func (r *FolderPostgres) ListByDataRoom(ctx context.Context, dataRoomID string) ([]model.Folder, error) {
	q := `SELECT ` + folderColumns + ` FROM folders WHERE data_room_id = $1 ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q, dataRoomID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	items := make([]model.Folder, 0)
	for rows.Next() {
		var f model.Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.DataRoomID, &f.ParentID, &f.UserID, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, translate(err)
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return items, nil
}

// ListChildrenWithCounts fetches the direct children of scope together with
// their child-folder and file counts in one aggregated query, avoiding
// per-folder count lookups.
func (r *FolderPostgres) ListChildrenWithCounts(ctx context.Context, scope repository.NameScope) ([]model.FolderWithCounts, error) {
	const q = `
		SELECT f.id, f.name, f.data_room_id, f.parent_id, f.user_id, f.created_at, f.updated_at,
		       COALESCE(c.child_count, 0), COALESCE(fl.file_count, 0)
		FROM folders f
		LEFT JOIN (
			SELECT parent_id, COUNT(*) AS child_count FROM folders GROUP BY parent_id
		) c ON c.parent_id = f.id
		LEFT JOIN (
			SELECT folder_id, COUNT(*) AS file_count FROM files GROUP BY folder_id
		) fl ON fl.folder_id = f.id
		WHERE f.data_room_id = $1 AND f.parent_id IS NOT DISTINCT FROM $2
		ORDER BY f.name ASC
	`
	rows, err := r.db.QueryContext(ctx, q, scope.DataRoomID, scope.ParentID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	items := make([]model.FolderWithCounts, 0)
	for rows.Next() {
		var f model.FolderWithCounts
		if err := rows.Scan(&f.ID, &f.Name, &f.DataRoomID, &f.ParentID, &f.UserID,
			&f.CreatedAt, &f.UpdatedAt, &f.Counts.Children, &f.Counts.Files); err != nil {
			return nil, translate(err)
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return items, nil
}

// ExistsName reports a case-insensitive sibling name match inside scope.
func (r *FolderPostgres) ExistsName(ctx context.Context, scope repository.NameScope, name, excludeID string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM folders
			WHERE data_room_id = $1
			  AND parent_id IS NOT DISTINCT FROM $2
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

// Create inserts a new folder row. The uq_folders_scope_name index catches
// racing conflict-free-looking creations.
func (r *FolderPostgres) Create(ctx context.Context, f *model.Folder) (*model.Folder, error) {
	const q = `
		INSERT INTO folders (id, name, data_room_id, parent_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + folderColumns
	return scanFolder(r.db.QueryRowContext(ctx, q,
		f.ID, f.Name, f.DataRoomID, f.ParentID, f.UserID, f.CreatedAt))
}

// Rename updates the folder name.
func (r *FolderPostgres) Rename(ctx context.Context, id, name string) (*model.Folder, error) {
	const q = `
		UPDATE folders SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + folderColumns
	return scanFolder(r.db.QueryRowContext(ctx, q, id, name))
}

// SetParent re-parents the folder; nil moves it to the room root.
func (r *FolderPostgres) SetParent(ctx context.Context, id string, parentID *string) (*model.Folder, error) {
	const q = `
		UPDATE folders SET parent_id = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + folderColumns
	return scanFolder(r.db.QueryRowContext(ctx, q, id, parentID))
}

// PathToRoot walks parent references upward from id, leaf first. The walk is
// iterative and capped so corrupt data cannot loop it forever.
func (r *FolderPostgres) PathToRoot(ctx context.Context, id string, maxDepth int) ([]model.Crumb, error) {
	const q = `SELECT id, name, parent_id FROM folders WHERE id = $1`

	crumbs := make([]model.Crumb, 0, 8)
	current := &id
	for depth := 0; current != nil; depth++ {
		if depth >= maxDepth {
			return nil, repository.ErrDepthExceeded
		}
		var c model.Crumb
		if err := r.db.QueryRowContext(ctx, q, *current).Scan(&c.ID, &c.Name, &c.ParentID); err != nil {
			return nil, translate(err)
		}
		crumbs = append(crumbs, c)
		current = c.ParentID
	}
	return crumbs, nil
}

// DeleteSubtree removes the folder, every descendant folder, and every file
// under any of them in one transaction. Descendants are collected level by
// level with an explicit frontier rather than recursion. Returns the storage
// paths of deleted files for out-of-band blob cleanup.
func (r *FolderPostgres) DeleteSubtree(ctx context.Context, id string) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, translate(err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	ids := []string{id}
	frontier := []string{id}
	for depth := 0; len(frontier) > 0; depth++ {
		if depth >= maxSubtreeDepth {
			return nil, repository.ErrDepthExceeded
		}
		rows, err := tx.QueryContext(ctx,
			`SELECT id FROM folders WHERE parent_id = ANY($1::uuid[])`, frontier)
		if err != nil {
			return nil, translate(err)
		}
		next := make([]string, 0)
		for rows.Next() {
			var childID string
			if err := rows.Scan(&childID); err != nil {
				rows.Close()
				return nil, translate(err)
			}
			next = append(next, childID)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, translate(err)
		}
		rows.Close()
		ids = append(ids, next...)
		frontier = next
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT storage_path FROM files WHERE folder_id = ANY($1::uuid[]) AND storage_path <> ''`, ids)
	if err != nil {
		return nil, translate(err)
	}
	paths := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, translate(err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, translate(err)
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE folder_id = ANY($1::uuid[])`, ids); err != nil {
		return nil, translate(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE id = ANY($1::uuid[])`, ids); err != nil {
		return nil, translate(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, translate(fmt.Errorf("commit subtree delete: %w", err))
	}
	return paths, nil
}
