package repository

import (
	"context"

	"github.com/just-nibble/versioncontrol/internal/domain"
)

// RepositoryStore defines an interface for database operations
type RepositoryStore interface {
	CreateRepository(ctx context.Context, repo *domain.Repository) error
	UpdateRepository(ctx context.Context, repo *domain.Repository) error
	RepositoryByID(ctx context.Context, id uint) (*domain.Repository, error)
	RepositoryByName(ctx context.Context, name string) (*domain.Repository, error)
	FindRepositories(ctx context.Context, query Query) ([]domain.Repository, error)
	DeleteRepository(ctx context.Context, id uint) error
	// LockRepository sets the lock timestamp only if the repository is unlocked.
	LockRepository(ctx context.Context, id uint, at int64) error
	UnlockRepository(ctx context.Context, id uint) error
	MarkRepositoryUpdated(ctx context.Context, id uint, at int64) error
}
