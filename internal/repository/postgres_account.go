package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
)

var accountColumns = columns{
	"repo_id":      true,
	"uid":          true,
	"vcs_username": true,
}

// GormAccountStore is a GORM-based implementation of AccountStore
type GormAccountStore struct {
	db *gorm.DB
}

// NewGormAccountStore initializes a new GormAccountStore
func NewGormAccountStore(db *gorm.DB) AccountStore {
	return &GormAccountStore{db: db}
}

func (s *GormAccountStore) CreateAccount(ctx context.Context, account *domain.Account) error {
	dbAccount := ToGormAccount(account)
	if err := s.db.WithContext(ctx).Create(dbAccount).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errcodes.ErrDuplicateAccount
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	account.ID = dbAccount.ID
	return nil
}

func (s *GormAccountStore) UpdateAccountUsername(ctx context.Context, repoID, uid uint, username string) error {
	tx := s.db.WithContext(ctx).Model(&Account{}).
		Where("repo_id = ? AND uid = ?", repoID, uid).
		Update("vcs_username", username)
	if tx.Error != nil {
		return fmt.Errorf("failed to update account: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return errcodes.ErrNoRecordFound
	}
	return nil
}

func (s *GormAccountStore) DeleteAccount(ctx context.Context, repoID, uid uint) error {
	tx := s.db.WithContext(ctx).Where("repo_id = ? AND uid = ?", repoID, uid).Delete(&Account{})
	if tx.Error != nil {
		return fmt.Errorf("failed to delete account: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return errcodes.ErrNoRecordFound
	}
	return nil
}

// AccountByUID retrieves the account of a local user in a repository
func (s *GormAccountStore) AccountByUID(ctx context.Context, repoID, uid uint) (*domain.Account, error) {
	if ctx.Err() == context.Canceled {
		return nil, errcodes.ErrContextCancelled
	}

	var account Account
	err := s.db.WithContext(ctx).Where("repo_id = ? AND uid = ?", repoID, uid).Limit(1).Find(&account).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve account: %w", err)
	}
	if account.ID == 0 {
		return nil, errcodes.ErrNoRecordFound
	}
	return account.ToDomain(), nil
}

func (s *GormAccountStore) AccountsByUsername(ctx context.Context, repoID uint, username string) ([]domain.Account, error) {
	return s.FindAccounts(ctx, Query{Conditions: map[string]any{
		"repo_id":      repoID,
		"vcs_username": username,
	}})
}

func (s *GormAccountStore) FindAccounts(ctx context.Context, query Query) ([]domain.Account, error) {
	db, err := query.apply(s.db.WithContext(ctx).Model(&Account{}), accountColumns)
	if err != nil {
		return nil, err
	}

	var dbAccounts []Account
	if err := db.Find(&dbAccounts).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve accounts: %w", err)
	}

	accounts := make([]domain.Account, 0, len(dbAccounts))
	for i := range dbAccounts {
		accounts = append(accounts, *dbAccounts[i].ToDomain())
	}
	return accounts, nil
}

func (s *GormAccountStore) DeleteAccountsByRepository(ctx context.Context, repoID uint) error {
	if err := s.db.WithContext(ctx).Where("repo_id = ?", repoID).Delete(&Account{}).Error; err != nil {
		return fmt.Errorf("failed to delete accounts: %w", err)
	}
	return nil
}
