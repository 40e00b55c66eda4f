package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/repository"
)

// Mock implementation for the OperationStore interface
type OperationStore struct {
	mock.Mock
}

func (m *OperationStore) CreateOperation(ctx context.Context, op *domain.Operation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *OperationStore) UpdateOperation(ctx context.Context, op *domain.Operation) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *OperationStore) DeleteOperation(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *OperationStore) OperationByID(ctx context.Context, id uint) (*domain.Operation, error) {
	args := m.Called(ctx, id)
	op, _ := args.Get(0).(*domain.Operation)
	return op, args.Error(1)
}

func (m *OperationStore) FindOperations(ctx context.Context, query repository.Query) ([]domain.Operation, error) {
	args := m.Called(ctx, query)
	ops, _ := args.Get(0).([]domain.Operation)
	return ops, args.Error(1)
}

func (m *OperationStore) DeleteOperationsByRepository(ctx context.Context, repoID uint) error {
	args := m.Called(ctx, repoID)
	return args.Error(0)
}

func (m *OperationStore) BindAuthor(ctx context.Context, repoID uint, username string, uid uint) (int64, error) {
	args := m.Called(ctx, repoID, username, uid)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OperationStore) BindCommitter(ctx context.Context, repoID uint, username string, uid uint) (int64, error) {
	args := m.Called(ctx, repoID, username, uid)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OperationStore) UnbindUID(ctx context.Context, repoID, uid uint) (int64, error) {
	args := m.Called(ctx, repoID, uid)
	return args.Get(0).(int64), args.Error(1)
}
