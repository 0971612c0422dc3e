package repository

import "errors"

// Closed set of store error kinds. Postgres adapters translate driver errors
// into these exactly once at the boundary; callers branch with errors.Is and
// never see raw driver errors.
var (
	// ErrNotFound means the row does not exist or is not visible to the caller.
	ErrNotFound = errors.New("record not found")

	// Uniqueness violations, by constraint.
	ErrFolderNameTaken   = errors.New("folder name already exists in this location")
	ErrFileNameTaken     = errors.New("file name already exists in this location")
	ErrDataRoomNameTaken = errors.New("data room name already exists")
	ErrEmailTaken        = errors.New("email already registered")
	ErrSubjectTaken      = errors.New("auth subject already linked")

	// ErrDuplicate is a uniqueness violation on a constraint the adapter
	// does not recognize by name.
	ErrDuplicate = errors.New("duplicate record")

	// ErrInvalidReference is a foreign-key violation: the referenced parent,
	// folder, data room, or user does not exist.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrDepthExceeded means a parent chain walk hit the defensive depth cap,
	// which only happens on corrupt data.
	ErrDepthExceeded = errors.New("folder chain too deep")

	// ErrUnavailable is a transient infrastructure fault (connection refused,
	// admin shutdown, timeout). Callers may retry with backoff.
	ErrUnavailable = errors.New("store unavailable")
)

// IsConflict reports whether err is any of the uniqueness violations.
func IsConflict(err error) bool {
	return errors.Is(err, ErrFolderNameTaken) ||
		errors.Is(err, ErrFileNameTaken) ||
		errors.Is(err, ErrDataRoomNameTaken) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrSubjectTaken) ||
		errors.Is(err, ErrDuplicate)
}
