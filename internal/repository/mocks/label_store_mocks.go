package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/repository"
)

// Mock implementation for the LabelStore interface
type LabelStore struct {
	mock.Mock
}

func (m *LabelStore) CreateLabel(ctx context.Context, label *domain.Label) error {
	args := m.Called(ctx, label)
	return args.Error(0)
}

func (m *LabelStore) LabelByName(ctx context.Context, repoID uint, typ domain.LabelType, name string) (*domain.Label, error) {
	args := m.Called(ctx, repoID, typ, name)
	label, _ := args.Get(0).(*domain.Label)
	return label, args.Error(1)
}

func (m *LabelStore) FindLabels(ctx context.Context, query repository.Query) ([]domain.Label, error) {
	args := m.Called(ctx, query)
	labels, _ := args.Get(0).([]domain.Label)
	return labels, args.Error(1)
}

func (m *LabelStore) DeleteLabel(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *LabelStore) ReplaceOperationLabels(ctx context.Context, operationID uint, labels []domain.Label) error {
	args := m.Called(ctx, operationID, labels)
	return args.Error(0)
}

func (m *LabelStore) DeleteOperationLabels(ctx context.Context, operationID uint) error {
	args := m.Called(ctx, operationID)
	return args.Error(0)
}

func (m *LabelStore) OperationLabels(ctx context.Context, operationID uint) ([]domain.Label, error) {
	args := m.Called(ctx, operationID)
	labels, _ := args.Get(0).([]domain.Label)
	return labels, args.Error(1)
}

func (m *LabelStore) DeleteLabelsByRepository(ctx context.Context, repoID uint) error {
	args := m.Called(ctx, repoID)
	return args.Error(0)
}
