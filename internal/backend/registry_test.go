package backend

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/just-nibble/versioncontrol/internal/repository"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
)

func TestRegistry(t *testing.T) {
	r := NewDefaultRegistry(repository.Stores{}, zerolog.Nop())

	b, err := r.Get("git")
	require.NoError(t, err)
	assert.Equal(t, "Git", b.Name())

	_, err = r.Get("hg")
	assert.ErrorIs(t, err, errcodes.ErrUnknownBackend)

	backends := r.Backends()
	require.Len(t, backends, 3)
	assert.Equal(t, "base", backends[0].VCS())
	assert.Equal(t, "git", backends[1].VCS())
	assert.Equal(t, "svn", backends[2].VCS())
}

func TestRegistry_StoreIsCached(t *testing.T) {
	r := NewDefaultRegistry(repository.Stores{}, zerolog.Nop())

	first, err := r.Store("svn")
	require.NoError(t, err)
	second, err := r.Store("svn")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, "svn", first.Backend().VCS())

	// re-registering drops the cached store
	r.Register(NewSVN())
	third, err := r.Store("svn")
	require.NoError(t, err)
	assert.NotSame(t, first, third)

	_, err = r.Store("cvs")
	assert.ErrorIs(t, err, errcodes.ErrUnknownBackend)
}
