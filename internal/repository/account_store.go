package repository

import (
	"context"

	"github.com/just-nibble/versioncontrol/internal/domain"
)

// AccountStore defines an interface for database operations
type AccountStore interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	UpdateAccountUsername(ctx context.Context, repoID, uid uint, username string) error
	DeleteAccount(ctx context.Context, repoID, uid uint) error
	AccountByUID(ctx context.Context, repoID, uid uint) (*domain.Account, error)
	AccountsByUsername(ctx context.Context, repoID uint, username string) ([]domain.Account, error)
	FindAccounts(ctx context.Context, query Query) ([]domain.Account, error)
	DeleteAccountsByRepository(ctx context.Context, repoID uint) error
}
