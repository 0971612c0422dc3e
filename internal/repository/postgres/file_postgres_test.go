package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"dataroom/internal/model"
	"dataroom/internal/repository"
)

func fileRows(files ...model.File) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "name", "data_room_id", "folder_id", "user_id",
		"file_size", "mime_type", "storage_path", "created_at", "updated_at",
	})
	for _, f := range files {
		rows.AddRow(f.ID, f.Name, f.DataRoomID, f.FolderID, f.UserID,
			f.Size, f.MimeType, f.Path, f.CreatedAt, f.UpdatedAt)
	}
	return rows
}

func TestFilePostgres_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFilePostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	in := &model.File{
		ID:         "file-1",
		Name:       "report.pdf",
		DataRoomID: "room-1",
		UserID:     "user-1",
		Size:       1024,
		MimeType:   "application/pdf",
		Path:       "rooms/room-1/abc.pdf",
		CreatedAt:  now,
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO files").
			WithArgs(in.ID, in.Name, in.DataRoomID, in.FolderID, in.UserID,
				in.Size, in.MimeType, in.Path, in.CreatedAt).
			WillReturnRows(fileRows(*in))

		got, err := repo.Create(ctx, in)

		assert.NoError(t, err)
		assert.Equal(t, "report.pdf", got.Name)
		assert.Equal(t, "rooms/room-1/abc.pdf", got.Path)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sibling name conflict", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO files").
			WillReturnError(pgError("23505", "uq_files_scope_name"))

		_, err := repo.Create(ctx, in)

		assert.ErrorIs(t, err, repository.ErrFileNameTaken)
	})
}

func TestFilePostgres_ListByFolder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFilePostgres(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM files WHERE folder_id").
		WithArgs("folder-1", "user-1").
		WillReturnRows(fileRows(
			model.File{ID: "file-2", Name: "new.pdf", CreatedAt: now},
			model.File{ID: "file-1", Name: "old.pdf", CreatedAt: now.Add(-time.Hour)},
		))

	items, err := repo.ListByFolder(context.Background(), "folder-1", "user-1")

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "new.pdf", items[0].Name)
}

func TestFilePostgres_FindByIDForOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFilePostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM files WHERE id").
		WithArgs("file-1", "intruder").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByIDForOwner(context.Background(), "file-1", "intruder")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFilePostgres_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFilePostgres(db)

	mock.ExpectExec("DELETE FROM files WHERE id").
		WithArgs("file-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "file-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
