package repository

import (
	"context"

	"github.com/just-nibble/versioncontrol/internal/domain"
)

// OperationStore defines an interface for database operations. It only
// touches operation rows; labels and item revisions have their own stores.
type OperationStore interface {
	CreateOperation(ctx context.Context, op *domain.Operation) error
	UpdateOperation(ctx context.Context, op *domain.Operation) error
	DeleteOperation(ctx context.Context, id uint) error
	OperationByID(ctx context.Context, id uint) (*domain.Operation, error)
	FindOperations(ctx context.Context, query Query) ([]domain.Operation, error)
	DeleteOperationsByRepository(ctx context.Context, repoID uint) error

	// BindAuthor sets author_uid on every operation of the repository whose
	// author equals username, and returns the number of rows touched.
	BindAuthor(ctx context.Context, repoID uint, username string, uid uint) (int64, error)
	BindCommitter(ctx context.Context, repoID uint, username string, uid uint) (int64, error)
	// UnbindUID resets author_uid and committer_uid bound to uid back to 0.
	UnbindUID(ctx context.Context, repoID, uid uint) (int64, error)
}
