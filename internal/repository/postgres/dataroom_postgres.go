package postgres

import (
	"context"
	"database/sql"

	"dataroom/internal/model"
	"dataroom/internal/repository"
)

// DataRoomPostgres is a PostgreSQL implementation of repository.DataRoomRepository.
type DataRoomPostgres struct {
	db *sql.DB
}

// NewDataRoomPostgres creates a new DataRoomPostgres repository.
func NewDataRoomPostgres(db *sql.DB) *DataRoomPostgres {
	return &DataRoomPostgres{db: db}
}

var _ repository.DataRoomRepository = (*DataRoomPostgres)(nil)

const roomColumns = `id, name, COALESCE(description, ''), user_id, created_at, updated_at`

func scanRoom(row *sql.Row) (*model.DataRoom, error) {
	var d model.DataRoom
	if err := row.Scan(&d.ID, &d.Name, &d.Description, &d.OwnerID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

// FindByOwner returns the owner's data room, oldest first when there is
// more than one.
func (r *DataRoomPostgres) FindByOwner(ctx context.Context, ownerID string) (*model.DataRoom, error) {
	q := `SELECT ` + roomColumns + ` FROM data_rooms WHERE user_id = $1 ORDER BY created_at ASC LIMIT 1`
	return scanRoom(r.db.QueryRowContext(ctx, q, ownerID))
}

// FindByIDForOwner returns the room only when owned by ownerID.
func (r *DataRoomPostgres) FindByIDForOwner(ctx context.Context, id, ownerID string) (*model.DataRoom, error) {
	q := `SELECT ` + roomColumns + ` FROM data_rooms WHERE id = $1 AND user_id = $2`
	return scanRoom(r.db.QueryRowContext(ctx, q, id, ownerID))
}

// Create inserts a new data room row.
func (r *DataRoomPostgres) Create(ctx context.Context, room *model.DataRoom) (*model.DataRoom, error) {
	const q = `
		INSERT INTO data_rooms (id, name, description, user_id, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $5)
		RETURNING ` + roomColumns
	return scanRoom(r.db.QueryRowContext(ctx, q,
		room.ID, room.Name, room.Description, room.OwnerID, room.CreatedAt))
}

// Rename updates the room name.
func (r *DataRoomPostgres) Rename(ctx context.Context, id, name string) (*model.DataRoom, error) {
	const q = `
		UPDATE data_rooms SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + roomColumns
	return scanRoom(r.db.QueryRowContext(ctx, q, id, name))
}
