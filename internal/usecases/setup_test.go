package usecases

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/just-nibble/versioncontrol/internal/backend"
	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/hooks"
	"github.com/just-nibble/versioncontrol/internal/mapper"
	"github.com/just-nibble/versioncontrol/internal/policy"
	"github.com/just-nibble/versioncontrol/internal/repository"
	"github.com/just-nibble/versioncontrol/internal/storage"
	"github.com/just-nibble/versioncontrol/pkg/config"
)

type eventRecorder struct {
	events []hooks.Event
}

func (r *eventRecorder) Name() string { return "recorder" }

func (r *eventRecorder) Notify(_ context.Context, e hooks.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *eventRecorder) names() []string {
	names := make([]string, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.Name())
	}
	return names
}

type fixture struct {
	uow        repository.UnitOfWork
	stores     repository.Stores
	handlers   *policy.Handlers
	mappers    *mapper.Registry
	events     *eventRecorder
	repos      RepositoryUsecase
	accounts   AccountUsecase
	operations OperationUsecase
	access     AccessUsecase
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := storage.InitDB(config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	uow := repository.NewGormUnitOfWork(db)
	stores := uow.Stores()
	logger := zerolog.Nop()

	f := &fixture{
		uow:      uow,
		stores:   stores,
		handlers: policy.NewHandlers(),
		mappers:  mapper.NewRegistry(stores.Accounts),
		events:   &eventRecorder{},
	}
	backends := backend.NewDefaultRegistry(stores, logger)
	dispatcher := hooks.NewDispatcher(logger, f.events)

	f.repos = NewRepositoryUsecase(uow, backends, []policy.AccountAuthorizer{f.handlers}, dispatcher, "git", logger)
	f.accounts = NewAccountUsecase(uow, backends, dispatcher, logger)
	f.operations = NewOperationUsecase(uow, backends, f.mappers, dispatcher, logger)
	f.access = NewAccessUsecase(uow, f.repos, logger, policy.NewHandlerPolicy(f.handlers))
	return f
}

func (f *fixture) createRepository(t *testing.T, name, vcs string) *domain.Repository {
	t.Helper()
	repo := &domain.Repository{Name: name, VCS: vcs}
	require.NoError(t, f.repos.Insert(context.Background(), repo))
	return repo
}

// createOperation stores an operation without going through the mappers.
func (f *fixture) createOperation(t *testing.T, repoID uint, author, committer string) *domain.Operation {
	t.Helper()
	op := &domain.Operation{RepoID: repoID, Type: domain.OperationCommit, Author: author, Committer: committer}
	require.NoError(t, f.stores.Operations.CreateOperation(context.Background(), op))
	return op
}

func (f *fixture) reload(t *testing.T, id uint) *domain.Operation {
	t.Helper()
	op, err := f.stores.Operations.OperationByID(context.Background(), id)
	require.NoError(t, err)
	return op
}
