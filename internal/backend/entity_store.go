package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/repository"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
	"github.com/just-nibble/versioncontrol/pkg/validator"
)

// LoadOptions narrows or orders a multi-entity load.
type LoadOptions struct {
	Limit   int
	Offset  int
	OrderBy string
	Desc    bool
}

// controller loads entities of one kind.
type controller interface {
	load(ctx context.Context, query repository.Query) ([]domain.Entity, error)
}

// EntityStore builds and loads entities for a single backend.
type EntityStore struct {
	backend Backend
	data    repository.Stores

	mu          sync.Mutex
	controllers map[domain.EntityKind]controller
}

func NewEntityStore(b Backend, data repository.Stores) *EntityStore {
	return &EntityStore{
		backend:     b,
		data:        data,
		controllers: make(map[domain.EntityKind]controller),
	}
}

func (s *EntityStore) Backend() Backend {
	return s.backend
}

// BuildEntity creates an entity of the given kind from its JSON
// representation and attaches the parent repository when the entity has one.
func (s *EntityStore) BuildEntity(ctx context.Context, kind domain.EntityKind, data []byte) (domain.Entity, error) {
	return s.build(ctx, kind, data, nil)
}

// BuildRepositoryEntity builds an entity that belongs to repo. The data may
// omit repo_id but must not name another repository.
func (s *EntityStore) BuildRepositoryEntity(ctx context.Context, repo *domain.Repository, kind domain.EntityKind, data []byte) (domain.RepositoryOwned, error) {
	if repo == nil || repo.ID == 0 {
		return nil, errcodes.ErrRepositoryUnresolved
	}
	entity, err := s.build(ctx, kind, data, repo)
	if err != nil {
		return nil, err
	}
	return entity.(domain.RepositoryOwned), nil
}

func (s *EntityStore) build(ctx context.Context, kind domain.EntityKind, data []byte, parent *domain.Repository) (domain.Entity, error) {
	factory, ok := s.backend.Factories()[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", errcodes.ErrInvalidEntityType, kind, s.backend.VCS())
	}

	entity := factory()
	if entity == nil || entity.Kind() != kind {
		return nil, fmt.Errorf("%w: %s", errcodes.ErrInvalidEntityClass, kind)
	}

	if parent != nil {
		owned, ok := entity.(domain.RepositoryOwned)
		if !ok {
			return nil, fmt.Errorf("%w: %s does not belong to a repository", errcodes.ErrInvalidEntityClass, kind)
		}
		owned.AttachRepository(parent)
	}

	if len(bytes.TrimSpace(data)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(entity); err != nil {
			return nil, fmt.Errorf("%w: %v", errcodes.ErrInvalidEntityData, err)
		}
		if entity.Kind() != kind {
			return nil, fmt.Errorf("%w: built a %s, wanted a %s", errcodes.ErrInvalidEntityData, entity.Kind(), kind)
		}
	}

	if parent != nil && entity.(domain.RepositoryOwned).OwnerRepoID() != parent.ID {
		return nil, fmt.Errorf("%w: %s belongs to repository %d, not %d", errcodes.ErrInvalidEntityData,
			kind, entity.(domain.RepositoryOwned).OwnerRepoID(), parent.ID)
	}

	if err := validator.Struct(entity); err != nil {
		return nil, fmt.Errorf("%w: %s", errcodes.ErrInvalidEntityData, validator.Message(err))
	}

	if owned, ok := entity.(domain.RepositoryOwned); ok && owned.ParentRepository() == nil && owned.OwnerRepoID() != 0 {
		repo, err := s.data.Repositories.RepositoryByID(ctx, owned.OwnerRepoID())
		if err != nil {
			if errors.Is(err, errcodes.ErrNoRecordFound) {
				return nil, fmt.Errorf("%w: repository %d", errcodes.ErrRepositoryUnresolved, owned.OwnerRepoID())
			}
			return nil, err
		}
		owned.AttachRepository(repo)
	}
	return entity, nil
}

// LoadEntities loads entities of a kind keyed by id. Conditions are matched
// by equality, or with IN when the value is a slice.
func (s *EntityStore) LoadEntities(ctx context.Context, kind domain.EntityKind, ids []uint, conditions map[string]any, opts LoadOptions) (map[uint]domain.Entity, error) {
	list, err := s.loadList(ctx, kind, ids, conditions, opts)
	if err != nil {
		return nil, err
	}

	entities := make(map[uint]domain.Entity, len(list))
	for _, e := range list {
		entities[e.EntityID()] = e
	}
	return entities, nil
}

// LoadEntity returns the matching entity with the lowest id.
func (s *EntityStore) LoadEntity(ctx context.Context, kind domain.EntityKind, ids []uint, conditions map[string]any) (domain.Entity, error) {
	list, err := s.loadList(ctx, kind, ids, conditions, LoadOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errcodes.ErrNoRecordFound
	}
	return list[0], nil
}

func (s *EntityStore) loadList(ctx context.Context, kind domain.EntityKind, ids []uint, conditions map[string]any, opts LoadOptions) ([]domain.Entity, error) {
	c, err := s.controller(kind)
	if err != nil {
		return nil, err
	}

	query := repository.Query{
		IDs:        ids,
		Conditions: make(map[string]any, len(conditions)+1),
		Limit:      opts.Limit,
		Offset:     opts.Offset,
		OrderBy:    opts.OrderBy,
		Desc:       opts.Desc,
	}
	for k, v := range conditions {
		query.Conditions[k] = v
	}

	list, err := c.load(ctx, query)
	if err != nil {
		return nil, err
	}
	if opts.OrderBy == "" {
		sort.SliceStable(list, func(i, j int) bool { return list[i].EntityID() < list[j].EntityID() })
	}
	return list, nil
}

func (s *EntityStore) controller(kind domain.EntityKind) (controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.controllers[kind]; ok {
		return c, nil
	}
	if _, ok := s.backend.Factories()[kind]; !ok {
		return nil, fmt.Errorf("%w: %s on %s", errcodes.ErrInvalidEntityType, kind, s.backend.VCS())
	}

	var c controller
	switch kind {
	case domain.KindRepository:
		c = repositoryController{store: s.data.Repositories, vcs: s.backend.VCS()}
	case domain.KindAccount:
		c = accountController{store: s.data.Accounts}
	case domain.KindOperation:
		c = operationController{store: s.data.Operations}
	case domain.KindItem:
		c = itemController{store: s.data.Items}
	case domain.KindBranch:
		c = labelController{store: s.data.Labels, typ: domain.LabelBranch}
	case domain.KindTag:
		c = labelController{store: s.data.Labels, typ: domain.LabelTag}
	default:
		return nil, fmt.Errorf("%w: no controller for %s", errcodes.ErrInvalidEntityType, kind)
	}
	s.controllers[kind] = c
	return c, nil
}
