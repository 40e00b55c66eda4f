package errcodes

import "errors"

var (
	ErrContextCancelled = errors.New("context cancelled")
	ErrNoRecordFound    = errors.New("no record found")

	// Invariant violations on entity lifecycle calls.
	ErrAlreadyExists = errors.New("entity is already present in the database")
	ErrNotFound      = errors.New("entity has not yet been inserted in the database")

	ErrDuplicateAccount = errors.New("an account already exists for this user in the repository")
	ErrInvalidUsername  = errors.New("invalid vcs username")

	ErrInvalidEntityType  = errors.New("invalid entity type requested; not supported by current backend")
	ErrInvalidEntityClass = errors.New("invalid entity class specified for building")
	ErrInvalidEntityData  = errors.New("invalid entity data")
	ErrInvalidCondition   = errors.New("invalid load condition")
	ErrUnknownBackend     = errors.New("unknown version control backend")
	ErrUnknownPlugin      = errors.New("unknown plugin")

	ErrRepositoryUnresolved = errors.New("cannot determine a repository for the operation")
	ErrRepositoryLocked     = errors.New("repository is locked")
)
