package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"dataroom/internal/model"
	"dataroom/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, email, COALESCE(subject, ''), COALESCE(name, ''), created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.Subject, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindByID fetches a user by primary key.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindBySubject fetches the user linked to an external auth subject.
func (r *UserPostgres) FindBySubject(ctx context.Context, subject string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE subject = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, subject))
}

// FindByEmail fetches a user by email.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// SetSubject backfills the auth subject on an existing record.
func (r *UserPostgres) SetSubject(ctx context.Context, id, subject string) error {
	const q = `UPDATE users SET subject = $2, updated_at = now() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id, subject); err != nil {
		return translate(err)
	}
	return nil
}

// CreateWithDataRoom inserts the user and their first data room atomically.
// The unique constraints on email/subject are the backstop against a racing
// first request; the caller treats a conflict here as "someone else won".
func (r *UserPostgres) CreateWithDataRoom(ctx context.Context, user *model.User, room *model.DataRoom) (*model.User, *model.DataRoom, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, translate(err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	const insertUser = `
		INSERT INTO users (id, email, subject, name, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $5)
		RETURNING id, email, COALESCE(subject, ''), COALESCE(name, ''), created_at, updated_at
	`
	var u model.User
	if err := tx.QueryRowContext(ctx, insertUser,
		user.ID, user.Email, user.Subject, user.Name, user.CreatedAt,
	).Scan(&u.ID, &u.Email, &u.Subject, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, nil, translate(err)
	}

	const insertRoom = `
		INSERT INTO data_rooms (id, name, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, name, COALESCE(description, ''), user_id, created_at, updated_at
	`
	var dr model.DataRoom
	if err := tx.QueryRowContext(ctx, insertRoom,
		room.ID, room.Name, u.ID, room.CreatedAt,
	).Scan(&dr.ID, &dr.Name, &dr.Description, &dr.OwnerID, &dr.CreatedAt, &dr.UpdatedAt); err != nil {
		return nil, nil, translate(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, translate(fmt.Errorf("commit user bootstrap: %w", err))
	}
	return &u, &dr, nil
}
