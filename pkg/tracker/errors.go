package tracker

import "errors"

var (
	// ErrNotFound is returned when a row does not exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique name or username is already taken
	ErrDuplicate = errors.New("already exists")

	// ErrInUse is returned when deleting a row that a task still references
	ErrInUse = errors.New("in use by one or more tasks")

	// ErrInvalidReference is returned when a task points at a missing status,
	// user or label
	ErrInvalidReference = errors.New("invalid reference")

	// ErrInvalidCredentials is returned by Authenticate on a bad username or password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidFilter is returned by ParseTaskFilterStrict for an id that
	// does not parse
	ErrInvalidFilter = errors.New("invalid filter")
)
