package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/repository"
)

// RepositoryStore mock
type RepositoryStore struct {
	mock.Mock
}

func (m *RepositoryStore) CreateRepository(ctx context.Context, repo *domain.Repository) error {
	args := m.Called(ctx, repo)
	return args.Error(0)
}

func (m *RepositoryStore) UpdateRepository(ctx context.Context, repo *domain.Repository) error {
	args := m.Called(ctx, repo)
	return args.Error(0)
}

func (m *RepositoryStore) RepositoryByID(ctx context.Context, id uint) (*domain.Repository, error) {
	args := m.Called(ctx, id)
	repo, _ := args.Get(0).(*domain.Repository)
	return repo, args.Error(1)
}

func (m *RepositoryStore) RepositoryByName(ctx context.Context, name string) (*domain.Repository, error) {
	args := m.Called(ctx, name)
	repo, _ := args.Get(0).(*domain.Repository)
	return repo, args.Error(1)
}

func (m *RepositoryStore) FindRepositories(ctx context.Context, query repository.Query) ([]domain.Repository, error) {
	args := m.Called(ctx, query)
	repos, _ := args.Get(0).([]domain.Repository)
	return repos, args.Error(1)
}

func (m *RepositoryStore) DeleteRepository(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *RepositoryStore) LockRepository(ctx context.Context, id uint, at int64) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *RepositoryStore) UnlockRepository(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *RepositoryStore) MarkRepositoryUpdated(ctx context.Context, id uint, at int64) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
