package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
)

var labelColumns = columns{
	"repo_id": true,
	"type":    true,
	"name":    true,
}

// GormLabelStore is a GORM-based implementation of LabelStore
type GormLabelStore struct {
	db *gorm.DB
}

// NewGormLabelStore initializes a new GormLabelStore
func NewGormLabelStore(db *gorm.DB) LabelStore {
	return &GormLabelStore{db: db}
}

func (s *GormLabelStore) CreateLabel(ctx context.Context, label *domain.Label) error {
	dbLabel := ToGormLabel(label)
	if err := s.db.WithContext(ctx).Create(dbLabel).Error; err != nil {
		return fmt.Errorf("failed to create label: %w", err)
	}
	label.ID = dbLabel.ID
	return nil
}

func (s *GormLabelStore) LabelByName(ctx context.Context, repoID uint, typ domain.LabelType, name string) (*domain.Label, error) {
	var label Label
	err := s.db.WithContext(ctx).
		Where("repo_id = ? AND type = ? AND name = ?", repoID, int(typ), name).
		Limit(1).Find(&label).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve label: %w", err)
	}
	if label.ID == 0 {
		return nil, errcodes.ErrNoRecordFound
	}
	return label.ToDomain(), nil
}

func (s *GormLabelStore) FindLabels(ctx context.Context, query Query) ([]domain.Label, error) {
	db, err := query.apply(s.db.WithContext(ctx).Model(&Label{}), labelColumns)
	if err != nil {
		return nil, err
	}

	var dbLabels []Label
	if err := db.Find(&dbLabels).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve labels: %w", err)
	}

	labels := make([]domain.Label, 0, len(dbLabels))
	for i := range dbLabels {
		labels = append(labels, *dbLabels[i].ToDomain())
	}
	return labels, nil
}

func (s *GormLabelStore) DeleteLabel(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("label_id = ?", id).Delete(&OperationLabel{}).Error; err != nil {
		return fmt.Errorf("failed to delete label associations: %w", err)
	}

	tx := db.Where("id = ?", id).Delete(&Label{})
	if tx.Error != nil {
		return fmt.Errorf("failed to delete label: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return errcodes.ErrNoRecordFound
	}
	return nil
}

func (s *GormLabelStore) ReplaceOperationLabels(ctx context.Context, operationID uint, labels []domain.Label) error {
	if err := s.DeleteOperationLabels(ctx, operationID); err != nil {
		return err
	}
	if len(labels) == 0 {
		return nil
	}

	rows := make([]OperationLabel, 0, len(labels))
	seen := make(map[uint]bool, len(labels))
	for _, l := range labels {
		if l.ID == 0 {
			return fmt.Errorf("label %q has not been saved", l.Name)
		}
		if seen[l.ID] {
			continue
		}
		seen[l.ID] = true
		rows = append(rows, OperationLabel{
			OperationID: operationID,
			LabelID:     l.ID,
			Action:      int(l.EffectiveAction()),
		})
	}

	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to create label associations: %w", err)
	}
	return nil
}

func (s *GormLabelStore) DeleteOperationLabels(ctx context.Context, operationID uint) error {
	if err := s.db.WithContext(ctx).Where("operation_id = ?", operationID).Delete(&OperationLabel{}).Error; err != nil {
		return fmt.Errorf("failed to delete label associations: %w", err)
	}
	return nil
}

type operationLabelRow struct {
	Label
	Action int
}

// OperationLabels returns the labels of an operation with their recorded action
func (s *GormLabelStore) OperationLabels(ctx context.Context, operationID uint) ([]domain.Label, error) {
	var rows []operationLabelRow
	err := s.db.WithContext(ctx).
		Table("labels").
		Select("labels.id, labels.repo_id, labels.type, labels.name, operation_labels.action").
		Joins("JOIN operation_labels ON operation_labels.label_id = labels.id").
		Where("operation_labels.operation_id = ?", operationID).
		Order("labels.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve operation labels: %w", err)
	}

	labels := make([]domain.Label, 0, len(rows))
	for i := range rows {
		l := rows[i].Label.ToDomain()
		l.Action = domain.Action(rows[i].Action)
		labels = append(labels, *l)
	}
	return labels, nil
}

func (s *GormLabelStore) DeleteLabelsByRepository(ctx context.Context, repoID uint) error {
	db := s.db.WithContext(ctx)

	labelIDs := db.Model(&Label{}).Select("id").Where("repo_id = ?", repoID)
	if err := db.Where("label_id IN (?)", labelIDs).Delete(&OperationLabel{}).Error; err != nil {
		return fmt.Errorf("failed to delete label associations: %w", err)
	}

	opIDs := db.Model(&Operation{}).Select("id").Where("repo_id = ?", repoID)
	if err := db.Where("operation_id IN (?)", opIDs).Delete(&OperationLabel{}).Error; err != nil {
		return fmt.Errorf("failed to delete label associations: %w", err)
	}

	if err := db.Where("repo_id = ?", repoID).Delete(&Label{}).Error; err != nil {
		return fmt.Errorf("failed to delete labels: %w", err)
	}
	return nil
}
