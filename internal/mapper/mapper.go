// Package mapper resolves the vcs usernames found on operations to local
// user ids.
package mapper

import (
	"context"
	"fmt"
	"sync"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/repository"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
)

const (
	AccountMapperName = "account"
	NoneMapperName    = "none"
)

// Mapper returns the local user id for a vcs username, or 0 if it has none.
type Mapper interface {
	MapUsername(ctx context.Context, repo *domain.Repository, username string) (uint, error)
}

// Func adapts a plain function to Mapper.
type Func func(ctx context.Context, repo *domain.Repository, username string) (uint, error)

func (f Func) MapUsername(ctx context.Context, repo *domain.Repository, username string) (uint, error) {
	return f(ctx, repo, username)
}

// AccountMapper looks the username up in the repository's accounts.
type AccountMapper struct {
	accounts repository.AccountStore
}

func NewAccountMapper(accounts repository.AccountStore) *AccountMapper {
	return &AccountMapper{accounts: accounts}
}

func (m *AccountMapper) MapUsername(ctx context.Context, repo *domain.Repository, username string) (uint, error) {
	if username == "" {
		return 0, nil
	}
	accounts, err := m.accounts.AccountsByUsername(ctx, repo.ID, username)
	if err != nil {
		return 0, err
	}
	if len(accounts) == 0 {
		return 0, nil
	}
	return accounts[0].UID, nil
}

// Registry holds the mappers repositories can select by name.
type Registry struct {
	mu      sync.RWMutex
	mappers map[string]Mapper
	// fallback serves repositories without an author mapper.
	fallback Mapper
}

// NewRegistry registers the account and none mappers. Repositories without
// an author mapper use the account mapper.
func NewRegistry(accounts repository.AccountStore) *Registry {
	account := NewAccountMapper(accounts)
	r := &Registry{
		mappers:  make(map[string]Mapper),
		fallback: account,
	}
	r.Register(AccountMapperName, account)
	r.Register(NoneMapperName, Func(func(context.Context, *domain.Repository, string) (uint, error) {
		return 0, nil
	}))
	return r
}

func (r *Registry) Register(name string, m Mapper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappers[name] = m
}

func (r *Registry) Get(name string) (Mapper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.mappers[name]
	if !ok {
		return nil, fmt.Errorf("%w: mapper %q", errcodes.ErrUnknownPlugin, name)
	}
	return m, nil
}

// AuthorMapper returns the mapper assigned to the repository's author slot.
func (r *Registry) AuthorMapper(repo *domain.Repository) (Mapper, error) {
	name := repo.Plugin(domain.PluginAuthorMapper)
	if name == "" {
		return r.fallback, nil
	}
	return r.Get(name)
}

// CommitterMapper returns the committer slot's mapper, or the author mapper
// when the slot is empty.
func (r *Registry) CommitterMapper(repo *domain.Repository) (Mapper, error) {
	name := repo.Plugin(domain.PluginCommitterMapper)
	if name == "" {
		return r.AuthorMapper(repo)
	}
	return r.Get(name)
}
