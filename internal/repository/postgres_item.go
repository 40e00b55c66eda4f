package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
)

var itemColumns = columns{
	"repo_id":      true,
	"operation_id": true,
	"path":         true,
	"revision":     true,
	"type":         true,
	"action":       true,
}

// GormItemRevisionStore is a GORM-based implementation of ItemRevisionStore
type GormItemRevisionStore struct {
	db *gorm.DB
}

// NewGormItemRevisionStore initializes a new GormItemRevisionStore
func NewGormItemRevisionStore(db *gorm.DB) ItemRevisionStore {
	return &GormItemRevisionStore{db: db}
}

func (s *GormItemRevisionStore) CreateItemRevision(ctx context.Context, item *domain.ItemRevision) error {
	dbItem := ToGormItemRevision(item)
	if err := s.db.WithContext(ctx).Create(dbItem).Error; err != nil {
		return fmt.Errorf("failed to create item revision: %w", err)
	}
	item.ID = dbItem.ID
	return nil
}

func (s *GormItemRevisionStore) UpdateItemRevision(ctx context.Context, item *domain.ItemRevision) error {
	tx := s.db.WithContext(ctx).Model(&ItemRevision{}).
		Where("id = ?", item.ID).
		Select("*").Omit("id").
		Updates(ToGormItemRevision(item))
	if tx.Error != nil {
		return fmt.Errorf("failed to update item revision: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return errcodes.ErrNoRecordFound
	}
	return nil
}

func (s *GormItemRevisionStore) ItemRevisionsByOperation(ctx context.Context, operationID uint) ([]domain.ItemRevision, error) {
	return s.FindItemRevisions(ctx, Query{Conditions: map[string]any{"operation_id": operationID}})
}

func (s *GormItemRevisionStore) FindItemRevisions(ctx context.Context, query Query) ([]domain.ItemRevision, error) {
	db, err := query.apply(s.db.WithContext(ctx).Model(&ItemRevision{}), itemColumns)
	if err != nil {
		return nil, err
	}

	var dbItems []ItemRevision
	if err := db.Find(&dbItems).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve item revisions: %w", err)
	}

	items := make([]domain.ItemRevision, 0, len(dbItems))
	for i := range dbItems {
		items = append(items, *dbItems[i].ToDomain())
	}
	return items, nil
}

func (s *GormItemRevisionStore) DeleteItemRevisionsByOperation(ctx context.Context, operationID uint) error {
	if err := s.db.WithContext(ctx).Where("operation_id = ?", operationID).Delete(&ItemRevision{}).Error; err != nil {
		return fmt.Errorf("failed to delete item revisions: %w", err)
	}
	return nil
}

func (s *GormItemRevisionStore) DeleteItemRevisionsByRepository(ctx context.Context, repoID uint) error {
	if err := s.db.WithContext(ctx).Where("repo_id = ?", repoID).Delete(&ItemRevision{}).Error; err != nil {
		return fmt.Errorf("failed to delete item revisions: %w", err)
	}
	return nil
}
