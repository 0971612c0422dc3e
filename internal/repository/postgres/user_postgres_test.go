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

var userCols = []string{"id", "email", "subject", "name", "created_at", "updated_at"}

func TestUserPostgres_FindBySubject(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		now := time.Now().UTC()
		mock.ExpectQuery("SELECT (.+) FROM users WHERE subject").
			WithArgs("sub-1").
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow("user-1", "alice@example.com", "sub-1", "Alice", now, now))

		u, err := repo.FindBySubject(ctx, "sub-1")

		assert.NoError(t, err)
		assert.Equal(t, "user-1", u.ID)
		assert.Equal(t, "Alice", u.Name)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE subject").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindBySubject(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, u)
	})
}

func TestUserPostgres_SetSubject(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserPostgres(db)

	mock.ExpectExec("UPDATE users SET subject").
		WithArgs("user-1", "sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetSubject(context.Background(), "user-1", "sub-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_CreateWithDataRoom(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	user := &model.User{ID: "user-1", Email: "alice@example.com", Subject: "sub-1", Name: "Alice", CreatedAt: now}
	room := &model.DataRoom{ID: "room-1", Name: "Data Room (Alice)", CreatedAt: now}

	t.Run("inserts both in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.Subject, user.Name, user.CreatedAt).
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(user.ID, user.Email, user.Subject, user.Name, now, now))
		mock.ExpectQuery("INSERT INTO data_rooms").
			WithArgs(room.ID, room.Name, user.ID, room.CreatedAt).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "user_id", "created_at", "updated_at"}).
				AddRow(room.ID, room.Name, "", user.ID, now, now))
		mock.ExpectCommit()

		gotUser, gotRoom, err := repo.CreateWithDataRoom(ctx, user, room)

		assert.NoError(t, err)
		assert.Equal(t, "user-1", gotUser.ID)
		assert.Equal(t, "Data Room (Alice)", gotRoom.Name)
		assert.Equal(t, "user-1", gotRoom.OwnerID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost race surfaces as conflict", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(pgError("23505", "uq_users_subject"))
		mock.ExpectRollback()

		_, _, err := repo.CreateWithDataRoom(ctx, user, room)

		assert.ErrorIs(t, err, repository.ErrSubjectTaken)
		assert.True(t, repository.IsConflict(err))
	})
}
