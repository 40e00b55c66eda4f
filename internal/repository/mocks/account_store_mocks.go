package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/repository"
)

// Mock implementation for the AccountStore interface
type AccountStore struct {
	mock.Mock
}

func (m *AccountStore) CreateAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *AccountStore) UpdateAccountUsername(ctx context.Context, repoID, uid uint, username string) error {
	args := m.Called(ctx, repoID, uid, username)
	return args.Error(0)
}

func (m *AccountStore) DeleteAccount(ctx context.Context, repoID, uid uint) error {
	args := m.Called(ctx, repoID, uid)
	return args.Error(0)
}

func (m *AccountStore) AccountByUID(ctx context.Context, repoID, uid uint) (*domain.Account, error) {
	args := m.Called(ctx, repoID, uid)
	account, _ := args.Get(0).(*domain.Account)
	return account, args.Error(1)
}

func (m *AccountStore) AccountsByUsername(ctx context.Context, repoID uint, username string) ([]domain.Account, error) {
	args := m.Called(ctx, repoID, username)
	accounts, _ := args.Get(0).([]domain.Account)
	return accounts, args.Error(1)
}

func (m *AccountStore) FindAccounts(ctx context.Context, query repository.Query) ([]domain.Account, error) {
	args := m.Called(ctx, query)
	accounts, _ := args.Get(0).([]domain.Account)
	return accounts, args.Error(1)
}

func (m *AccountStore) DeleteAccountsByRepository(ctx context.Context, repoID uint) error {
	args := m.Called(ctx, repoID)
	return args.Error(0)
}
