package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/just-nibble/versioncontrol/internal/backend"
	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/hooks"
	"github.com/just-nibble/versioncontrol/internal/policy"
	"github.com/just-nibble/versioncontrol/internal/repository"
	"github.com/just-nibble/versioncontrol/internal/repository/mocks"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
)

type authorizerFunc func(repo *domain.Repository, uid uint) (bool, error)

func (f authorizerFunc) AuthorizeAccount(_ context.Context, repo *domain.Repository, uid uint) (bool, error) {
	return f(repo, uid)
}

func TestRepositoryUsecase_Insert(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	repo := &domain.Repository{Name: "core"}
	require.NoError(t, f.repos.Insert(ctx, repo))
	assert.NotZero(t, repo.ID)
	assert.Equal(t, "git", repo.VCS)
	assert.Equal(t, domain.DefaultAuthorizationMethod, repo.AuthorizationMethod)

	loaded, err := f.repos.GetByName(ctx, "core")
	require.NoError(t, err)
	assert.Equal(t, repo.ID, loaded.ID)

	assert.ErrorIs(t, f.repos.Insert(ctx, repo), errcodes.ErrAlreadyExists)
	assert.ErrorIs(t, f.repos.Insert(ctx, &domain.Repository{Name: "x", VCS: "hg"}), errcodes.ErrUnknownBackend)
	assert.ErrorIs(t, f.repos.Insert(ctx, &domain.Repository{VCS: "git"}), errcodes.ErrInvalidEntityData)
}

func TestRepositoryUsecase_SaveAndUpdate(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	repo := &domain.Repository{Name: "core", VCS: "svn"}
	require.NoError(t, f.repos.Save(ctx, repo))
	require.NotZero(t, repo.ID)

	repo.Root = "svn://svn.example.org/core"
	require.NoError(t, f.repos.Save(ctx, repo))

	loaded, err := f.repos.GetByID(ctx, repo.ID)
	require.NoError(t, err)
	assert.Equal(t, "svn://svn.example.org/core", loaded.Root)

	assert.ErrorIs(t, f.repos.Update(ctx, &domain.Repository{Name: "x", VCS: "git"}), errcodes.ErrNotFound)
	assert.ErrorIs(t, f.repos.Update(ctx, &domain.Repository{ID: 77, Name: "x", VCS: "git"}), errcodes.ErrNotFound)

	all, err := f.repos.GetAll(ctx, repository.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, []string{"repo.insert", "repo.update"}, f.events.names())
}

func TestRepositoryUsecase_DeleteCascades(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	repo := f.createRepository(t, "doomed", "git")
	kept := f.createRepository(t, "kept", "git")

	for _, r := range []*domain.Repository{repo, kept} {
		require.NoError(t, f.accounts.Insert(ctx, &domain.Account{RepoID: r.ID, UID: 1, VCSUsername: "alice"}))
		op := &domain.Operation{
			RepoID:        r.ID,
			Type:          domain.OperationCommit,
			Author:        "alice",
			Labels:        []domain.Label{{Name: "main", Type: domain.LabelBranch}, {Name: "v1", Type: domain.LabelTag}},
			ItemRevisions: []domain.ItemRevision{{Path: "/a"}, {Path: "/b"}},
		}
		require.NoError(t, f.operations.Insert(ctx, op, WriteOptions{Nested: true}))
	}

	require.NoError(t, f.repos.Delete(ctx, repo))

	_, err := f.repos.GetByID(ctx, repo.ID)
	assert.ErrorIs(t, err, errcodes.ErrNoRecordFound)

	byRepo := repositoryQuery("repo_id", repo.ID)
	ops, err := f.stores.Operations.FindOperations(ctx, byRepo)
	require.NoError(t, err)
	assert.Empty(t, ops)
	accounts, err := f.stores.Accounts.FindAccounts(ctx, byRepo)
	require.NoError(t, err)
	assert.Empty(t, accounts)
	labels, err := f.stores.Labels.FindLabels(ctx, byRepo)
	require.NoError(t, err)
	assert.Empty(t, labels)
	items, err := f.stores.Items.FindItemRevisions(ctx, repository.Query{})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, kept.ID, item.RepoID)
	}

	// the other repository is untouched, label associations included
	keptOps, err := f.operations.GetAll(ctx, kept.ID, repository.Query{})
	require.NoError(t, err)
	require.Len(t, keptOps, 1)
	keptLabels, err := f.stores.Labels.OperationLabels(ctx, keptOps[0].ID)
	require.NoError(t, err)
	assert.Len(t, keptLabels, 2)

	assert.ErrorIs(t, f.repos.Delete(ctx, repo), errcodes.ErrNotFound)
}

func TestRepositoryUsecase_DeleteRollsBack(t *testing.T) {
	uow := mocks.NewUnitOfWork()
	repo := &domain.Repository{ID: 3, Name: "core", VCS: "git"}

	uow.Labels.On("DeleteLabelsByRepository", mock.Anything, uint(3)).Return(nil)
	uow.Items.On("DeleteItemRevisionsByRepository", mock.Anything, uint(3)).Return(errors.New("lock timeout"))

	recorder := &eventRecorder{}
	uc := NewRepositoryUsecase(uow, backend.NewDefaultRegistry(uow.Stores(), zerolog.Nop()), nil,
		hooks.NewDispatcher(zerolog.Nop(), recorder), "git", zerolog.Nop())

	err := uc.Delete(context.TODO(), repo)
	assert.EqualError(t, err, "lock timeout")
	assert.Empty(t, recorder.events)

	uow.Operations.AssertNotCalled(t, "DeleteOperationsByRepository", mock.Anything, mock.Anything)
	uow.Repos.AssertNotCalled(t, "DeleteRepository", mock.Anything, mock.Anything)
}

func TestRepositoryUsecase_IsAccountAuthorized(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	repo := f.createRepository(t, "core", "git")

	ok, err := f.repos.IsAccountAuthorized(ctx, repo, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.repos.IsAccountAuthorized(ctx, repo, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	blockOdd := authorizerFunc(func(_ *domain.Repository, uid uint) (bool, error) { return uid%2 == 0, nil })
	uc := NewRepositoryUsecase(f.uow, backend.NewDefaultRegistry(f.stores, zerolog.Nop()),
		[]policy.AccountAuthorizer{f.handlers, blockOdd}, nil, "git", zerolog.Nop())

	ok, err = uc.IsAccountAuthorized(ctx, repo, 5)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = uc.IsAccountAuthorized(ctx, repo, 4)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, f.accounts.Insert(ctx, &domain.Account{RepoID: repo.ID, UID: 5, VCSUsername: "odd"}))
	require.NoError(t, f.accounts.Insert(ctx, &domain.Account{RepoID: repo.ID, UID: 6, VCSUsername: "even"}))

	_, err = uc.GetAccountUIDForUsername(ctx, repo, "odd", false)
	assert.ErrorIs(t, err, errcodes.ErrNoRecordFound)
	uid, err := uc.GetAccountUIDForUsername(ctx, repo, "odd", true)
	require.NoError(t, err)
	assert.Equal(t, uint(5), uid)

	_, err = uc.GetAccountUsernameForUID(ctx, repo, 5, false)
	assert.ErrorIs(t, err, errcodes.ErrNoRecordFound)
	name, err := uc.GetAccountUsernameForUID(ctx, repo, 5, true)
	require.NoError(t, err)
	assert.Equal(t, "odd", name)
	name, err = uc.GetAccountUsernameForUID(ctx, repo, 6, false)
	require.NoError(t, err)
	assert.Equal(t, "even", name)
}

func TestRepositoryUsecase_Lock(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	repo := f.createRepository(t, "core", "git")

	uc := f.repos.(*repositoryUsecase)
	uc.now = func() time.Time { return time.Unix(1700000000, 0) }

	require.NoError(t, f.repos.Lock(ctx, repo))
	assert.True(t, repo.IsLocked())
	assert.ErrorIs(t, f.repos.Lock(ctx, repo), errcodes.ErrRepositoryLocked)

	require.NoError(t, f.repos.Unlock(ctx, repo))
	assert.False(t, repo.IsLocked())

	require.NoError(t, f.repos.MarkUpdated(ctx, repo))
	loaded, err := f.repos.GetByID(ctx, repo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), loaded.Updated)
	assert.Zero(t, loaded.Locked)
}
