package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
)

var repositoryColumns = columns{
	"name":                 true,
	"vcs":                  true,
	"root":                 true,
	"authorization_method": true,
	"update_method":        true,
	"locked":               true,
	"updated":              true,
}

// GormRepositoryStore is a GORM-based implementation of RepositoryStore
type GormRepositoryStore struct {
	db *gorm.DB
}

// NewGormRepositoryStore initializes a new GormRepositoryStore
func NewGormRepositoryStore(db *gorm.DB) RepositoryStore {
	return &GormRepositoryStore{db: db}
}

func (r *GormRepositoryStore) CreateRepository(ctx context.Context, repo *domain.Repository) error {
	dbRepo := ToGormRepo(repo)
	if err := r.db.WithContext(ctx).Create(dbRepo).Error; err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	repo.ID = dbRepo.ID
	return nil
}

func (r *GormRepositoryStore) UpdateRepository(ctx context.Context, repo *domain.Repository) error {
	dbRepo := ToGormRepo(repo)

	tx := r.db.WithContext(ctx).Model(&Repository{}).
		Where("id = ?", repo.ID).
		Select("*").Omit("id", "created_at").
		Updates(dbRepo)
	if tx.Error != nil {
		return fmt.Errorf("failed to update repository: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return errcodes.ErrNoRecordFound
	}
	return nil
}

func (r *GormRepositoryStore) RepositoryByID(ctx context.Context, id uint) (*domain.Repository, error) {
	if ctx.Err() == context.Canceled {
		return nil, errcodes.ErrContextCancelled
	}

	var repo Repository
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&repo).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve repository: %w", err)
	}
	if repo.ID == 0 {
		return nil, errcodes.ErrNoRecordFound
	}
	return repo.ToDomain(), nil
}

func (r *GormRepositoryStore) RepositoryByName(ctx context.Context, name string) (*domain.Repository, error) {
	if ctx.Err() == context.Canceled {
		return nil, errcodes.ErrContextCancelled
	}

	var repo Repository
	if err := r.db.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&repo).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve repository: %w", err)
	}
	if repo.ID == 0 {
		return nil, errcodes.ErrNoRecordFound
	}
	return repo.ToDomain(), nil
}

func (r *GormRepositoryStore) FindRepositories(ctx context.Context, query Query) ([]domain.Repository, error) {
	db, err := query.apply(r.db.WithContext(ctx).Model(&Repository{}), repositoryColumns)
	if err != nil {
		return nil, err
	}

	var dbRepositories []Repository
	if err := db.Find(&dbRepositories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve repositories: %w", err)
	}

	repos := make([]domain.Repository, 0, len(dbRepositories))
	for i := range dbRepositories {
		repos = append(repos, *dbRepositories[i].ToDomain())
	}
	return repos, nil
}

func (r *GormRepositoryStore) DeleteRepository(ctx context.Context, id uint) error {
	tx := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Repository{})
	if tx.Error != nil {
		return fmt.Errorf("failed to delete repository: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return errcodes.ErrNoRecordFound
	}
	return nil
}

func (r *GormRepositoryStore) LockRepository(ctx context.Context, id uint, at int64) error {
	tx := r.db.WithContext(ctx).Model(&Repository{}).
		Where("id = ? AND locked = 0", id).
		Update("locked", at)
	if tx.Error != nil {
		return fmt.Errorf("failed to lock repository: %w", tx.Error)
	}
	if tx.RowsAffected == 1 {
		return nil
	}

	if _, err := r.RepositoryByID(ctx, id); err != nil {
		return err
	}
	return errcodes.ErrRepositoryLocked
}

func (r *GormRepositoryStore) UnlockRepository(ctx context.Context, id uint) error {
	return r.updateColumn(ctx, id, "locked", int64(0))
}

func (r *GormRepositoryStore) MarkRepositoryUpdated(ctx context.Context, id uint, at int64) error {
	return r.updateColumn(ctx, id, "updated", at)
}

func (r *GormRepositoryStore) updateColumn(ctx context.Context, id uint, column string, value any) error {
	tx := r.db.WithContext(ctx).Model(&Repository{}).Where("id = ?", id).Update(column, value)
	if tx.Error != nil {
		return fmt.Errorf("failed to update repository %s: %w", column, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return errcodes.ErrNoRecordFound
	}
	return nil
}
