package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/just-nibble/versioncontrol/internal/repository"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
)

// Registry maps a VCS identifier to its backend and hands out one entity
// store per backend.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
	stores   map[string]*EntityStore
	data     repository.Stores
	logger   zerolog.Logger
}

func NewRegistry(data repository.Stores, logger zerolog.Logger) *Registry {
	return &Registry{
		backends: make(map[string]Backend),
		stores:   make(map[string]*EntityStore),
		data:     data,
		logger:   logger,
	}
}

// NewDefaultRegistry registers the base, git and svn backends.
func NewDefaultRegistry(data repository.Stores, logger zerolog.Logger) *Registry {
	r := NewRegistry(data, logger)
	r.Register(NewDefault())
	r.Register(NewGit())
	r.Register(NewSVN())
	return r
}

// NewDefault is the backend used for repositories of an unknown system.
func NewDefault() *Base {
	b := NewBase("base", "Base", "Generic version control system")
	return &b
}

// Register adds or replaces the backend for b.VCS().
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backends[b.VCS()] = b
	delete(r.stores, b.VCS())
	r.logger.Debug().Str("vcs", b.VCS()).Msg("registered backend")
}

func (r *Registry) Get(vcs string) (Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.backends[vcs]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errcodes.ErrUnknownBackend, vcs)
	}
	return b, nil
}

// Backends returns the registered backends sorted by VCS identifier.
func (r *Registry) Backends() []Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Backend, 0, len(r.backends))
	for _, b := range r.backends {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].VCS() < list[j].VCS() })
	return list
}

// Store returns the entity store of the backend, creating it on first use.
func (r *Registry) Store(vcs string) (*EntityStore, error) {
	r.mu.RLock()
	s, ok := r.stores[vcs]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}

	b, err := r.Get(vcs)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[vcs]; ok {
		return s, nil
	}
	s = NewEntityStore(b, r.data)
	r.stores[vcs] = s
	return s, nil
}
