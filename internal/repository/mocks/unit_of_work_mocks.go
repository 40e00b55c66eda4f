package mocks

import (
	"context"

	"github.com/just-nibble/versioncontrol/internal/repository"
)

// UnitOfWork runs transactions directly against the mocked stores.
type UnitOfWork struct {
	Repos      *RepositoryStore
	Accounts   *AccountStore
	Operations *OperationStore
	Labels     *LabelStore
	Items      *ItemRevisionStore
}

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{
		Repos:      new(RepositoryStore),
		Accounts:   new(AccountStore),
		Operations: new(OperationStore),
		Labels:     new(LabelStore),
		Items:      new(ItemRevisionStore),
	}
}

func (u *UnitOfWork) Stores() repository.Stores {
	return repository.Stores{
		Repositories: u.Repos,
		Accounts:     u.Accounts,
		Operations:   u.Operations,
		Labels:       u.Labels,
		Items:        u.Items,
	}
}

func (u *UnitOfWork) Transaction(ctx context.Context, fn func(repository.Stores) error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fn(u.Stores())
}
