package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/policy"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
)

func message(s string) *string { return &s }

func staticPolicy(name string, outcome policy.Outcome) policy.WriteAccessPolicy {
	return policy.Func{
		PolicyName: name,
		Fn: func(context.Context, *domain.Operation, []domain.ItemRevision) (policy.Outcome, error) {
			return outcome, nil
		},
	}
}

func openRepository(t *testing.T, f *fixture) *domain.Repository {
	t.Helper()
	repo := &domain.Repository{Name: "open", VCS: "git", AllowUnauthorizedAccess: true}
	require.NoError(t, f.repos.Insert(context.Background(), repo))
	return repo
}

func TestAccessUsecase_UnresolvedRepository(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.access.Evaluate(ctx, domain.AccessRequest{Type: domain.OperationCommit})
	assert.ErrorIs(t, err, errcodes.ErrRepositoryUnresolved)

	_, err = f.access.Evaluate(ctx, domain.AccessRequest{Type: domain.OperationCommit, RepoID: 404})
	assert.ErrorIs(t, err, errcodes.ErrRepositoryUnresolved)
}

func TestAccessUsecase_RequiresAccount(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	repo := f.createRepository(t, "closed", "git")
	require.NoError(t, f.accounts.Insert(ctx, &domain.Account{RepoID: repo.ID, UID: 2, VCSUsername: "alice"}))

	result, err := f.access.Evaluate(ctx, domain.AccessRequest{Type: domain.OperationCommit, RepoID: repo.ID, Committer: "mallory", Message: message("hi")})
	require.NoError(t, err)
	assert.False(t, result.Permitted)
	assert.Equal(t, []string{`The user "mallory" does not have an approved account in the closed repository.`}, result.Reasons)

	result, err = f.access.Evaluate(ctx, domain.AccessRequest{Type: domain.OperationCommit, RepoID: repo.ID, Committer: "alice", Message: message("hi")})
	require.NoError(t, err)
	assert.True(t, result.Permitted)
	assert.Empty(t, result.Reasons)

	result, err = f.access.Evaluate(ctx, domain.AccessRequest{Type: domain.OperationCommit, RepoID: repo.ID, CommitterUID: 2})
	require.NoError(t, err)
	assert.True(t, result.Permitted)

	// the auth handler can revoke access of an existing account
	f.handlers.Register("closed", func(*domain.Repository) policy.AuthHandler { return denyAll{} })
	repo.Plugins = map[string]string{domain.PluginAuthHandler: "closed"}
	require.NoError(t, f.repos.Update(ctx, repo))

	result, err = f.access.Evaluate(ctx, domain.AccessRequest{Type: domain.OperationCommit, RepoID: repo.ID, CommitterUID: 2})
	require.NoError(t, err)
	assert.False(t, result.Permitted)
}

func TestAccessUsecase_EmptyMessage(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	repo := openRepository(t, f)
	f.access.RegisterPolicy(staticPolicy("admin", policy.Allow()))

	for _, msg := range []string{"", "   ", "\n\t"} {
		result, err := f.access.Evaluate(ctx, domain.AccessRequest{Type: domain.OperationCommit, RepoID: repo.ID, Message: message(msg)})
		require.NoError(t, err)
		assert.False(t, result.Permitted)
		assert.Equal(t, []string{emptyMessageReason}, result.Reasons)
	}

	// tags without a message field are not affected
	result, err := f.access.Evaluate(ctx, domain.AccessRequest{Type: domain.OperationTag, RepoID: repo.ID})
	require.NoError(t, err)
	assert.True(t, result.Permitted)
}

func TestAccessUsecase_Policies(t *testing.T) {
	ctx := context.Background()

	t.Run("allow wins over denials", func(t *testing.T) {
		f := setupFixture(t)
		repo := openRepository(t, f)
		f.access.RegisterPolicy(staticPolicy("quota", policy.Deny("Quota exceeded.")))
		f.access.RegisterPolicy(staticPolicy("admin", policy.Allow()))
		f.access.RegisterPolicy(staticPolicy("freeze", policy.Deny("Code freeze.")))

		result, err := f.access.Evaluate(ctx, domain.AccessRequest{Type: domain.OperationCommit, RepoID: repo.ID, Message: message("fix")})
		require.NoError(t, err)
		assert.True(t, result.Permitted)
		assert.Empty(t, result.Reasons)
	})

	t.Run("reasons accumulate in order", func(t *testing.T) {
		f := setupFixture(t)
		repo := openRepository(t, f)
		f.access.RegisterPolicy(staticPolicy("quota", policy.Deny("Quota exceeded.")))
		f.access.RegisterPolicy(staticPolicy("noop", policy.Abstain()))
		f.access.RegisterPolicy(staticPolicy("freeze", policy.Deny("Code freeze.", "Ask a maintainer.")))

		result, err := f.access.Evaluate(ctx, domain.AccessRequest{Type: domain.OperationCommit, RepoID: repo.ID, Message: message("fix")})
		require.NoError(t, err)
		assert.False(t, result.Permitted)
		assert.Equal(t, []string{"Quota exceeded.", "Code freeze.", "Ask a maintainer."}, result.Reasons)
	})

	t.Run("no objections permit", func(t *testing.T) {
		f := setupFixture(t)
		repo := openRepository(t, f)
		f.access.RegisterPolicy(staticPolicy("noop", policy.Abstain()))

		result, err := f.access.Evaluate(ctx, domain.AccessRequest{Type: domain.OperationBranch, RepoID: repo.ID})
		require.NoError(t, err)
		assert.True(t, result.Permitted)
	})

	t.Run("policy errors abort evaluation", func(t *testing.T) {
		f := setupFixture(t)
		repo := openRepository(t, f)
		f.access.RegisterPolicy(policy.Func{
			PolicyName: "ldap",
			Fn: func(context.Context, *domain.Operation, []domain.ItemRevision) (policy.Outcome, error) {
				return policy.Outcome{}, errors.New("ldap unreachable")
			},
		})

		_, err := f.access.Evaluate(ctx, domain.AccessRequest{Type: domain.OperationCommit, RepoID: repo.ID})
		assert.ErrorContains(t, err, "policy ldap: ldap unreachable")
	})

	t.Run("policies see the resolved operation", func(t *testing.T) {
		f := setupFixture(t)
		repo := openRepository(t, f)
		require.NoError(t, f.accounts.Insert(ctx, &domain.Account{RepoID: repo.ID, UID: 8, VCSUsername: "alice"}))

		var seen *domain.Operation
		var seenItems []domain.ItemRevision
		f.access.RegisterPolicy(policy.Func{
			PolicyName: "spy",
			Fn: func(_ context.Context, op *domain.Operation, items []domain.ItemRevision) (policy.Outcome, error) {
				seen, seenItems = op, items
				return policy.Abstain(), nil
			},
		})

		req := domain.AccessRequest{
			Type:      domain.OperationCommit,
			RepoID:    repo.ID,
			Committer: "alice",
			Message:   message("add docs"),
			Items:     []domain.ItemRevision{{Path: "/docs/index.md", Action: domain.ActionAdded}},
		}
		_, err := f.access.Evaluate(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, seen)
		assert.Equal(t, uint(8), seen.CommitterUID)
		assert.Equal(t, "add docs", seen.Message)
		assert.Equal(t, repo.ID, seen.Repository.ID)
		assert.Len(t, seenItems, 1)
	})
}

type denyAll struct{ policy.FreeForAll }

func (denyAll) AuthAccess(uint) bool { return false }
