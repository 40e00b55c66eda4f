package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/just-nibble/versioncontrol/internal/backend"
	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/hooks"
	"github.com/just-nibble/versioncontrol/internal/policy"
	"github.com/just-nibble/versioncontrol/internal/repository"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
	"github.com/just-nibble/versioncontrol/pkg/validator"
)

type RepositoryUsecase interface {
	Insert(ctx context.Context, repo *domain.Repository) error
	Update(ctx context.Context, repo *domain.Repository) error
	// Save inserts repositories without an id and updates the others.
	Save(ctx context.Context, repo *domain.Repository) error
	// Delete removes the repository with all its operations, accounts,
	// labels and item revisions in one transaction.
	Delete(ctx context.Context, repo *domain.Repository) error
	GetByID(ctx context.Context, id uint) (*domain.Repository, error)
	GetByName(ctx context.Context, name string) (*domain.Repository, error)
	GetAll(ctx context.Context, query repository.Query) ([]domain.Repository, error)

	IsAccountAuthorized(ctx context.Context, repo *domain.Repository, uid uint) (bool, error)
	GetAccountUIDForUsername(ctx context.Context, repo *domain.Repository, username string, includeUnauthorized bool) (uint, error)
	GetAccountUsernameForUID(ctx context.Context, repo *domain.Repository, uid uint, includeUnauthorized bool) (string, error)

	Lock(ctx context.Context, repo *domain.Repository) error
	Unlock(ctx context.Context, repo *domain.Repository) error
	MarkUpdated(ctx context.Context, repo *domain.Repository) error
}

type repositoryUsecase struct {
	uow            repository.UnitOfWork
	backends       *backend.Registry
	authorizers    []policy.AccountAuthorizer
	hooks          *hooks.Dispatcher
	defaultBackend string
	log            zerolog.Logger
	now            func() time.Time
}

func NewRepositoryUsecase(uow repository.UnitOfWork, backends *backend.Registry, authorizers []policy.AccountAuthorizer,
	dispatcher *hooks.Dispatcher, defaultBackend string, log zerolog.Logger) RepositoryUsecase {
	return &repositoryUsecase{
		uow:            uow,
		backends:       backends,
		authorizers:    authorizers,
		hooks:          dispatcher,
		defaultBackend: defaultBackend,
		log:            log,
		now:            time.Now,
	}
}

func (uc *repositoryUsecase) Insert(ctx context.Context, repo *domain.Repository) error {
	if repo.ID != 0 {
		return fmt.Errorf("%w: repository %d", errcodes.ErrAlreadyExists, repo.ID)
	}
	if repo.VCS == "" {
		repo.VCS = uc.defaultBackend
	}
	if repo.AuthorizationMethod == "" {
		repo.AuthorizationMethod = domain.DefaultAuthorizationMethod
	}
	if err := uc.validate(repo); err != nil {
		return err
	}

	if err := uc.uow.Stores().Repositories.CreateRepository(ctx, repo); err != nil {
		return err
	}

	uc.log.Info().Uint("repo_id", repo.ID).Str("vcs", repo.VCS).Msg("repository created")
	uc.hooks.Dispatch(ctx, hooks.NewEvent(hooks.ActionInsert, repo))
	return nil
}

func (uc *repositoryUsecase) Update(ctx context.Context, repo *domain.Repository) error {
	if repo.ID == 0 {
		return fmt.Errorf("%w: repository without id", errcodes.ErrNotFound)
	}
	if err := uc.validate(repo); err != nil {
		return err
	}

	if err := uc.uow.Stores().Repositories.UpdateRepository(ctx, repo); err != nil {
		return notFound(err, "repository", repo.ID)
	}

	uc.hooks.Dispatch(ctx, hooks.NewEvent(hooks.ActionUpdate, repo))
	return nil
}

func (uc *repositoryUsecase) Save(ctx context.Context, repo *domain.Repository) error {
	if repo.ID == 0 {
		return uc.Insert(ctx, repo)
	}
	return uc.Update(ctx, repo)
}

func (uc *repositoryUsecase) Delete(ctx context.Context, repo *domain.Repository) error {
	if repo.ID == 0 {
		return fmt.Errorf("%w: repository without id", errcodes.ErrNotFound)
	}

	err := uc.uow.Transaction(ctx, func(s repository.Stores) error {
		// label associations go first, they are found through the operations
		if err := s.Labels.DeleteLabelsByRepository(ctx, repo.ID); err != nil {
			return err
		}
		if err := s.Items.DeleteItemRevisionsByRepository(ctx, repo.ID); err != nil {
			return err
		}
		if err := s.Operations.DeleteOperationsByRepository(ctx, repo.ID); err != nil {
			return err
		}
		if err := s.Accounts.DeleteAccountsByRepository(ctx, repo.ID); err != nil {
			return err
		}
		return s.Repositories.DeleteRepository(ctx, repo.ID)
	})
	if err != nil {
		return notFound(err, "repository", repo.ID)
	}

	uc.log.Info().Uint("repo_id", repo.ID).Msg("repository deleted")
	uc.hooks.Dispatch(ctx, hooks.NewEvent(hooks.ActionDelete, repo))
	return nil
}

func (uc *repositoryUsecase) GetByID(ctx context.Context, id uint) (*domain.Repository, error) {
	repo, err := uc.uow.Stores().Repositories.RepositoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return repo, nil
}

func (uc *repositoryUsecase) GetByName(ctx context.Context, name string) (*domain.Repository, error) {
	repo, err := uc.uow.Stores().Repositories.RepositoryByName(ctx, name)
	if err != nil {
		return nil, err
	}

	return repo, nil
}

func (uc *repositoryUsecase) GetAll(ctx context.Context, query repository.Query) ([]domain.Repository, error) {
	return uc.uow.Stores().Repositories.FindRepositories(ctx, query)
}

// IsAccountAuthorized reports whether uid may use its account in the
// repository. Any authorizer can veto; uid 0 is never authorized.
func (uc *repositoryUsecase) IsAccountAuthorized(ctx context.Context, repo *domain.Repository, uid uint) (bool, error) {
	if uid == 0 {
		return false, nil
	}
	for _, a := range uc.authorizers {
		ok, err := a.AuthorizeAccount(ctx, repo, uid)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (uc *repositoryUsecase) GetAccountUIDForUsername(ctx context.Context, repo *domain.Repository, username string, includeUnauthorized bool) (uint, error) {
	accounts, err := uc.uow.Stores().Accounts.AccountsByUsername(ctx, repo.ID, username)
	if err != nil {
		return 0, err
	}
	for _, account := range accounts {
		if includeUnauthorized {
			return account.UID, nil
		}
		ok, err := uc.IsAccountAuthorized(ctx, repo, account.UID)
		if err != nil {
			return 0, err
		}
		if ok {
			return account.UID, nil
		}
	}
	return 0, errcodes.ErrNoRecordFound
}

func (uc *repositoryUsecase) GetAccountUsernameForUID(ctx context.Context, repo *domain.Repository, uid uint, includeUnauthorized bool) (string, error) {
	account, err := uc.uow.Stores().Accounts.AccountByUID(ctx, repo.ID, uid)
	if err != nil {
		return "", err
	}
	if !includeUnauthorized {
		ok, err := uc.IsAccountAuthorized(ctx, repo, uid)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", errcodes.ErrNoRecordFound
		}
	}
	return account.VCSUsername, nil
}

func (uc *repositoryUsecase) Lock(ctx context.Context, repo *domain.Repository) error {
	at := uc.now().Unix()
	if err := uc.uow.Stores().Repositories.LockRepository(ctx, repo.ID, at); err != nil {
		return err
	}
	repo.Locked = at
	return nil
}

func (uc *repositoryUsecase) Unlock(ctx context.Context, repo *domain.Repository) error {
	if err := uc.uow.Stores().Repositories.UnlockRepository(ctx, repo.ID); err != nil {
		return err
	}
	repo.Locked = 0
	return nil
}

func (uc *repositoryUsecase) MarkUpdated(ctx context.Context, repo *domain.Repository) error {
	at := uc.now().Unix()
	if err := uc.uow.Stores().Repositories.MarkRepositoryUpdated(ctx, repo.ID, at); err != nil {
		return err
	}
	repo.Updated = at
	return nil
}

func (uc *repositoryUsecase) validate(repo *domain.Repository) error {
	if err := validator.Struct(repo); err != nil {
		return fmt.Errorf("%w: %s", errcodes.ErrInvalidEntityData, validator.Message(err))
	}
	if _, err := uc.backends.Get(repo.VCS); err != nil {
		return err
	}
	return nil
}

// notFound turns a missing row into ErrNotFound for lifecycle calls.
func notFound(err error, what string, id uint) error {
	if errors.Is(err, errcodes.ErrNoRecordFound) {
		return fmt.Errorf("%w: %s %d", errcodes.ErrNotFound, what, id)
	}
	return err
}
