package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
)

var operationColumns = columns{
	"repo_id":       true,
	"type":          true,
	"revision":      true,
	"author":        true,
	"committer":     true,
	"author_uid":    true,
	"committer_uid": true,
	"date":          true,
}

// GormOperationStore is a GORM-based implementation of OperationStore
type GormOperationStore struct {
	db *gorm.DB
}

// NewGormOperationStore initializes a new GormOperationStore
func NewGormOperationStore(db *gorm.DB) OperationStore {
	return &GormOperationStore{db: db}
}

// CreateOperation inserts the operation row and assigns its id
func (s *GormOperationStore) CreateOperation(ctx context.Context, op *domain.Operation) error {
	if ctx.Err() == context.Canceled {
		return errcodes.ErrContextCancelled
	}

	dbOp := ToGormOperation(op)
	if err := s.db.WithContext(ctx).Create(dbOp).Error; err != nil {
		return fmt.Errorf("failed to create operation: %w", err)
	}
	op.ID = dbOp.ID
	return nil
}

func (s *GormOperationStore) UpdateOperation(ctx context.Context, op *domain.Operation) error {
	tx := s.db.WithContext(ctx).Model(&Operation{}).
		Where("id = ?", op.ID).
		Select("*").Omit("id", "repo_id", "created_at").
		Updates(ToGormOperation(op))
	if tx.Error != nil {
		return fmt.Errorf("failed to update operation: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return errcodes.ErrNoRecordFound
	}
	return nil
}

func (s *GormOperationStore) DeleteOperation(ctx context.Context, id uint) error {
	tx := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Operation{})
	if tx.Error != nil {
		return fmt.Errorf("failed to delete operation: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return errcodes.ErrNoRecordFound
	}
	return nil
}

func (s *GormOperationStore) OperationByID(ctx context.Context, id uint) (*domain.Operation, error) {
	if ctx.Err() == context.Canceled {
		return nil, errcodes.ErrContextCancelled
	}

	var op Operation
	if err := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&op).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve operation: %w", err)
	}
	if op.ID == 0 {
		return nil, errcodes.ErrNoRecordFound
	}
	return op.ToDomain(), nil
}

func (s *GormOperationStore) FindOperations(ctx context.Context, query Query) ([]domain.Operation, error) {
	db, err := query.apply(s.db.WithContext(ctx).Model(&Operation{}), operationColumns)
	if err != nil {
		return nil, err
	}

	var dbOps []Operation
	if err := db.Find(&dbOps).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve operations: %w", err)
	}

	ops := make([]domain.Operation, 0, len(dbOps))
	for i := range dbOps {
		ops = append(ops, *dbOps[i].ToDomain())
	}
	return ops, nil
}

func (s *GormOperationStore) DeleteOperationsByRepository(ctx context.Context, repoID uint) error {
	if err := s.db.WithContext(ctx).Where("repo_id = ?", repoID).Delete(&Operation{}).Error; err != nil {
		return fmt.Errorf("failed to delete operations: %w", err)
	}
	return nil
}

func (s *GormOperationStore) BindAuthor(ctx context.Context, repoID uint, username string, uid uint) (int64, error) {
	return s.bind(ctx, "author", "author_uid", repoID, username, uid)
}

func (s *GormOperationStore) BindCommitter(ctx context.Context, repoID uint, username string, uid uint) (int64, error) {
	return s.bind(ctx, "committer", "committer_uid", repoID, username, uid)
}

func (s *GormOperationStore) bind(ctx context.Context, nameColumn, uidColumn string, repoID uint, username string, uid uint) (int64, error) {
	tx := s.db.WithContext(ctx).Model(&Operation{}).
		Where(fmt.Sprintf("repo_id = ? AND %s = ?", nameColumn), repoID, username).
		Update(uidColumn, uid)
	if tx.Error != nil {
		return 0, fmt.Errorf("failed to bind %s: %w", nameColumn, tx.Error)
	}
	return tx.RowsAffected, nil
}

func (s *GormOperationStore) UnbindUID(ctx context.Context, repoID, uid uint) (int64, error) {
	var total int64
	for _, column := range []string{"author_uid", "committer_uid"} {
		tx := s.db.WithContext(ctx).Model(&Operation{}).
			Where(fmt.Sprintf("repo_id = ? AND %s = ?", column), repoID, uid).
			Update(column, 0)
		if tx.Error != nil {
			return total, fmt.Errorf("failed to reset %s: %w", column, tx.Error)
		}
		total += tx.RowsAffected
	}
	return total, nil
}
