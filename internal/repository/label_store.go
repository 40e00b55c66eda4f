package repository

import (
	"context"

	"github.com/just-nibble/versioncontrol/internal/domain"
)

// LabelStore defines an interface for database operations on branches,
// tags and their per-operation associations
type LabelStore interface {
	CreateLabel(ctx context.Context, label *domain.Label) error
	LabelByName(ctx context.Context, repoID uint, typ domain.LabelType, name string) (*domain.Label, error)
	FindLabels(ctx context.Context, query Query) ([]domain.Label, error)
	DeleteLabel(ctx context.Context, id uint) error

	// ReplaceOperationLabels drops every association of the operation and
	// records one association per label, using the label's effective action.
	ReplaceOperationLabels(ctx context.Context, operationID uint, labels []domain.Label) error
	DeleteOperationLabels(ctx context.Context, operationID uint) error
	OperationLabels(ctx context.Context, operationID uint) ([]domain.Label, error)

	DeleteLabelsByRepository(ctx context.Context, repoID uint) error
}
