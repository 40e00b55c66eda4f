package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/just-nibble/versioncontrol/internal/backend"
	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/hooks"
	"github.com/just-nibble/versioncontrol/internal/metrics"
	"github.com/just-nibble/versioncontrol/internal/repository"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
	"github.com/just-nibble/versioncontrol/pkg/validator"
)

// AccountUsecase links vcs usernames to local users and keeps the resolved
// uids on operations in step with those links.
type AccountUsecase interface {
	// Insert creates the account and binds every operation of the
	// repository authored or committed under its username.
	Insert(ctx context.Context, account *domain.Account) error
	// Update renames the account. Operations bound through the old name
	// are released, those matching the new name are bound.
	Update(ctx context.Context, account *domain.Account, username string) error
	// Delete removes the account and releases its operations. Usernames
	// recorded on operations are kept.
	Delete(ctx context.Context, account *domain.Account) error
	Get(ctx context.Context, repoID, uid uint) (*domain.Account, error)
	GetAll(ctx context.Context, repoID uint, query repository.Query) ([]domain.Account, error)
}

type accountUsecase struct {
	uow      repository.UnitOfWork
	backends *backend.Registry
	hooks    *hooks.Dispatcher
	log      zerolog.Logger
}

func NewAccountUsecase(uow repository.UnitOfWork, backends *backend.Registry, dispatcher *hooks.Dispatcher, log zerolog.Logger) AccountUsecase {
	return &accountUsecase{
		uow:      uow,
		backends: backends,
		hooks:    dispatcher,
		log:      log,
	}
}

func (uc *accountUsecase) Insert(ctx context.Context, account *domain.Account) error {
	if account.ID != 0 {
		return fmt.Errorf("%w: account %d", errcodes.ErrAlreadyExists, account.ID)
	}
	if err := validator.Struct(account); err != nil {
		return fmt.Errorf("%w: %s", errcodes.ErrInvalidEntityData, validator.Message(err))
	}

	repo, err := resolveRepository(ctx, uc.uow.Stores().Repositories, account)
	if err != nil {
		return err
	}
	username, err := uc.checkUsername(repo, account.VCSUsername)
	if err != nil {
		return err
	}
	account.VCSUsername = username

	var bound int64
	err = uc.uow.Transaction(ctx, func(s repository.Stores) error {
		_, err := s.Accounts.AccountByUID(ctx, account.RepoID, account.UID)
		switch {
		case err == nil:
			return errcodes.ErrDuplicateAccount
		case !errors.Is(err, errcodes.ErrNoRecordFound):
			return err
		}

		if err := s.Accounts.CreateAccount(ctx, account); err != nil {
			return err
		}
		bound, err = bind(ctx, s, account)
		return err
	})
	if err != nil {
		account.ID = 0
		return err
	}

	metrics.AttributionRebinds.WithLabelValues("bind").Add(float64(bound))
	uc.log.Info().Uint("repo_id", account.RepoID).Uint("uid", account.UID).
		Str("vcs_username", account.VCSUsername).Int64("operations", bound).Msg("account created")
	uc.hooks.Dispatch(ctx, hooks.NewEvent(hooks.ActionInsert, account))
	return nil
}

func (uc *accountUsecase) Update(ctx context.Context, account *domain.Account, username string) error {
	if account.RepoID == 0 || account.UID == 0 {
		return fmt.Errorf("%w: account without repository or user", errcodes.ErrNotFound)
	}

	repo, err := resolveRepository(ctx, uc.uow.Stores().Repositories, account)
	if err != nil {
		return err
	}
	username, err = uc.checkUsername(repo, username)
	if err != nil {
		return err
	}

	var released, bound int64
	changed := false
	err = uc.uow.Transaction(ctx, func(s repository.Stores) error {
		current, err := s.Accounts.AccountByUID(ctx, account.RepoID, account.UID)
		if err != nil {
			return notFound(err, "account for user", account.UID)
		}
		if current.VCSUsername == username {
			return nil
		}
		changed = true

		if released, err = s.Operations.UnbindUID(ctx, account.RepoID, account.UID); err != nil {
			return err
		}
		if err := s.Accounts.UpdateAccountUsername(ctx, account.RepoID, account.UID, username); err != nil {
			return err
		}
		renamed := *current
		renamed.VCSUsername = username
		bound, err = bind(ctx, s, &renamed)
		return err
	})
	if err != nil || !changed {
		return err
	}
	account.VCSUsername = username

	metrics.AttributionRebinds.WithLabelValues("unbind").Add(float64(released))
	metrics.AttributionRebinds.WithLabelValues("bind").Add(float64(bound))
	uc.log.Info().Uint("repo_id", account.RepoID).Uint("uid", account.UID).Str("vcs_username", username).
		Int64("released", released).Int64("bound", bound).Msg("account renamed")
	uc.hooks.Dispatch(ctx, hooks.NewEvent(hooks.ActionUpdate, account))
	return nil
}

func (uc *accountUsecase) Delete(ctx context.Context, account *domain.Account) error {
	if account.RepoID == 0 || account.UID == 0 {
		return fmt.Errorf("%w: account without repository or user", errcodes.ErrNotFound)
	}

	var released int64
	err := uc.uow.Transaction(ctx, func(s repository.Stores) error {
		var err error
		if released, err = s.Operations.UnbindUID(ctx, account.RepoID, account.UID); err != nil {
			return err
		}
		return s.Accounts.DeleteAccount(ctx, account.RepoID, account.UID)
	})
	if err != nil {
		return notFound(err, "account for user", account.UID)
	}

	metrics.AttributionRebinds.WithLabelValues("unbind").Add(float64(released))
	uc.log.Info().Uint("repo_id", account.RepoID).Uint("uid", account.UID).Int64("released", released).Msg("account deleted")
	uc.hooks.Dispatch(ctx, hooks.NewEvent(hooks.ActionDelete, account))
	return nil
}

func (uc *accountUsecase) Get(ctx context.Context, repoID, uid uint) (*domain.Account, error) {
	return uc.uow.Stores().Accounts.AccountByUID(ctx, repoID, uid)
}

func (uc *accountUsecase) GetAll(ctx context.Context, repoID uint, query repository.Query) ([]domain.Account, error) {
	if query.Conditions == nil {
		query.Conditions = map[string]any{}
	}
	query.Conditions["repo_id"] = repoID
	return uc.uow.Stores().Accounts.FindAccounts(ctx, query)
}

func (uc *accountUsecase) checkUsername(repo *domain.Repository, username string) (string, error) {
	b, err := uc.backends.Get(repo.VCS)
	if err != nil {
		return "", err
	}
	adapted, ok := b.IsUsernameValid(username)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a valid %s username", errcodes.ErrInvalidUsername, username, b.Name())
	}
	return adapted, nil
}

// bind points author_uid and committer_uid of the account's operations at
// the account's user, one pass per role.
func bind(ctx context.Context, s repository.Stores, account *domain.Account) (int64, error) {
	authored, err := s.Operations.BindAuthor(ctx, account.RepoID, account.VCSUsername, account.UID)
	if err != nil {
		return 0, err
	}
	committed, err := s.Operations.BindCommitter(ctx, account.RepoID, account.VCSUsername, account.UID)
	if err != nil {
		return authored, err
	}
	return authored + committed, nil
}
