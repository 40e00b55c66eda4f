package mapper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/repository/mocks"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
)

func TestAccountMapper_MapUsername(t *testing.T) {
	accounts := new(mocks.AccountStore)
	repo := &domain.Repository{ID: 4}

	accounts.On("AccountsByUsername", mock.Anything, uint(4), "alice").
		Return([]domain.Account{{RepoID: 4, UID: 12, VCSUsername: "alice"}}, nil)
	accounts.On("AccountsByUsername", mock.Anything, uint(4), "ghost").
		Return([]domain.Account{}, nil)
	accounts.On("AccountsByUsername", mock.Anything, uint(4), "broken").
		Return(nil, errors.New("connection reset"))

	m := NewAccountMapper(accounts)

	uid, err := m.MapUsername(context.TODO(), repo, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint(12), uid)

	uid, err = m.MapUsername(context.TODO(), repo, "ghost")
	require.NoError(t, err)
	assert.Zero(t, uid)

	uid, err = m.MapUsername(context.TODO(), repo, "")
	require.NoError(t, err)
	assert.Zero(t, uid)

	_, err = m.MapUsername(context.TODO(), repo, "broken")
	assert.Error(t, err)

	accounts.AssertExpectations(t)
}

func TestRegistry_SlotResolution(t *testing.T) {
	r := NewRegistry(new(mocks.AccountStore))
	static := Func(func(context.Context, *domain.Repository, string) (uint, error) { return 99, nil })
	r.Register("static", static)

	// no plugins: both slots use the account mapper
	plain := &domain.Repository{ID: 1}
	author, err := r.AuthorMapper(plain)
	require.NoError(t, err)
	assert.IsType(t, &AccountMapper{}, author)
	committer, err := r.CommitterMapper(plain)
	require.NoError(t, err)
	assert.Same(t, author, committer)

	// committer falls back to the author slot
	withAuthor := &domain.Repository{ID: 2, Plugins: map[string]string{domain.PluginAuthorMapper: "static"}}
	committer, err = r.CommitterMapper(withAuthor)
	require.NoError(t, err)
	uid, err := committer.MapUsername(context.TODO(), withAuthor, "anyone")
	require.NoError(t, err)
	assert.Equal(t, uint(99), uid)

	both := &domain.Repository{ID: 3, Plugins: map[string]string{
		domain.PluginAuthorMapper:    "static",
		domain.PluginCommitterMapper: NoneMapperName,
	}}
	committer, err = r.CommitterMapper(both)
	require.NoError(t, err)
	uid, err = committer.MapUsername(context.TODO(), both, "anyone")
	require.NoError(t, err)
	assert.Zero(t, uid)

	unknown := &domain.Repository{ID: 4, Plugins: map[string]string{domain.PluginAuthorMapper: "ldap"}}
	_, err = r.AuthorMapper(unknown)
	assert.ErrorIs(t, err, errcodes.ErrUnknownPlugin)
}
