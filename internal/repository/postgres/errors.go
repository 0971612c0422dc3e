package postgres

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"dataroom/internal/repository"
)

// translate maps driver errors onto the repository's closed error-kind set.
// It is the only place in the codebase that inspects Postgres error codes or
// constraint names.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505": // unique_violation
			switch pgErr.ConstraintName {
			case "uq_folders_scope_name":
				return repository.ErrFolderNameTaken
			case "uq_files_scope_name":
				return repository.ErrFileNameTaken
			case "uq_data_rooms_owner_name":
				return repository.ErrDataRoomNameTaken
			case "uq_users_email":
				return repository.ErrEmailTaken
			case "uq_users_subject":
				return repository.ErrSubjectTaken
			default:
				return repository.ErrDuplicate
			}
		case pgErr.Code == "23503": // foreign_key_violation
			return repository.ErrInvalidReference
		case strings.HasPrefix(pgErr.Code, "08"), // connection exceptions
			strings.HasPrefix(pgErr.Code, "53"), // insufficient resources
			strings.HasPrefix(pgErr.Code, "57"): // operator intervention (admin shutdown)
			return repository.ErrUnavailable
		}
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return repository.ErrUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return repository.ErrUnavailable
	}

	return err
}
