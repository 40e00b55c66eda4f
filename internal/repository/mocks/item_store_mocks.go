package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/repository"
)

// Mock implementation for the ItemRevisionStore interface
type ItemRevisionStore struct {
	mock.Mock
}

func (m *ItemRevisionStore) CreateItemRevision(ctx context.Context, item *domain.ItemRevision) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *ItemRevisionStore) UpdateItemRevision(ctx context.Context, item *domain.ItemRevision) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *ItemRevisionStore) ItemRevisionsByOperation(ctx context.Context, operationID uint) ([]domain.ItemRevision, error) {
	args := m.Called(ctx, operationID)
	items, _ := args.Get(0).([]domain.ItemRevision)
	return items, args.Error(1)
}

func (m *ItemRevisionStore) FindItemRevisions(ctx context.Context, query repository.Query) ([]domain.ItemRevision, error) {
	args := m.Called(ctx, query)
	items, _ := args.Get(0).([]domain.ItemRevision)
	return items, args.Error(1)
}

func (m *ItemRevisionStore) DeleteItemRevisionsByOperation(ctx context.Context, operationID uint) error {
	args := m.Called(ctx, operationID)
	return args.Error(0)
}

func (m *ItemRevisionStore) DeleteItemRevisionsByRepository(ctx context.Context, repoID uint) error {
	args := m.Called(ctx, repoID)
	return args.Error(0)
}
