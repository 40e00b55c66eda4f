package repository

import (
	"context"

	"github.com/just-nibble/versioncontrol/internal/domain"
)

// ItemRevisionStore defines an interface for database operations
type ItemRevisionStore interface {
	CreateItemRevision(ctx context.Context, item *domain.ItemRevision) error
	UpdateItemRevision(ctx context.Context, item *domain.ItemRevision) error
	ItemRevisionsByOperation(ctx context.Context, operationID uint) ([]domain.ItemRevision, error)
	FindItemRevisions(ctx context.Context, query Query) ([]domain.ItemRevision, error)
	DeleteItemRevisionsByOperation(ctx context.Context, operationID uint) error
	DeleteItemRevisionsByRepository(ctx context.Context, repoID uint) error
}
