package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/just-nibble/versioncontrol/internal/backend"
	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/hooks"
	"github.com/just-nibble/versioncontrol/internal/mapper"
	"github.com/just-nibble/versioncontrol/internal/repository"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
	"github.com/just-nibble/versioncontrol/pkg/validator"
)

// WriteOptions controls how far a write cascades.
type WriteOptions struct {
	// Nested also writes or deletes the operation's item revisions.
	Nested bool
}

type OperationUsecase interface {
	Insert(ctx context.Context, op *domain.Operation, opts WriteOptions) error
	Update(ctx context.Context, op *domain.Operation, opts WriteOptions) error
	// UpdateLabels replaces the operation's label associations with op.Labels.
	UpdateLabels(ctx context.Context, op *domain.Operation) error
	Delete(ctx context.Context, op *domain.Operation, opts WriteOptions) error

	GetByID(ctx context.Context, id uint) (*domain.Operation, error)
	GetAll(ctx context.Context, repoID uint, query repository.Query) ([]domain.Operation, error)
	LoadCommits(ctx context.Context, repoID uint, query repository.Query) ([]domain.Operation, error)
	LoadItemRevisions(ctx context.Context, op *domain.Operation) ([]domain.ItemRevision, error)

	// FormatRevisionIdentifier renders the revision the way the repository's
	// backend does, or "#<id>" for operations without a revision.
	FormatRevisionIdentifier(ctx context.Context, op *domain.Operation, format domain.RevisionFormat) (string, error)
}

type operationUsecase struct {
	uow      repository.UnitOfWork
	backends *backend.Registry
	mappers  *mapper.Registry
	hooks    *hooks.Dispatcher
	log      zerolog.Logger
}

func NewOperationUsecase(uow repository.UnitOfWork, backends *backend.Registry, mappers *mapper.Registry,
	dispatcher *hooks.Dispatcher, log zerolog.Logger) OperationUsecase {
	return &operationUsecase{
		uow:      uow,
		backends: backends,
		mappers:  mappers,
		hooks:    dispatcher,
		log:      log,
	}
}

func (uc *operationUsecase) Insert(ctx context.Context, op *domain.Operation, opts WriteOptions) error {
	if op.ID != 0 {
		return fmt.Errorf("%w: operation %d", errcodes.ErrAlreadyExists, op.ID)
	}
	if err := validator.Struct(op); err != nil {
		return fmt.Errorf("%w: %s", errcodes.ErrInvalidEntityData, validator.Message(err))
	}

	repo, err := resolveRepository(ctx, uc.uow.Stores().Repositories, op)
	if err != nil {
		return err
	}
	if err := uc.mapUsers(ctx, repo, op); err != nil {
		return err
	}

	savedIDs := labelIDs(op.Labels)
	err = uc.uow.Transaction(ctx, func(s repository.Stores) error {
		if err := s.Operations.CreateOperation(ctx, op); err != nil {
			return err
		}
		if opts.Nested {
			for i := range op.ItemRevisions {
				item := &op.ItemRevisions[i]
				item.ID = 0
				item.OperationID = op.ID
				item.RepoID = op.RepoID
				if err := s.Items.CreateItemRevision(ctx, item); err != nil {
					return err
				}
			}
		}
		if len(op.Labels) > 0 {
			return saveLabels(ctx, s, op.ID, op.RepoID, op.Labels)
		}
		return nil
	})
	if err != nil {
		op.ID = 0
		if opts.Nested {
			for i := range op.ItemRevisions {
				op.ItemRevisions[i].ID = 0
			}
		}
		restoreLabelIDs(op.Labels, savedIDs)
		return err
	}

	uc.log.Debug().Uint("repo_id", op.RepoID).Uint("operation_id", op.ID).Str("type", op.Type.String()).Msg("operation created")
	uc.hooks.Dispatch(ctx, hooks.NewEvent(hooks.ActionInsert, op))
	return nil
}

// Update rewrites the operation's fields. The owning repository is fixed at
// insert; a changed author or committer is mapped to its uid again.
func (uc *operationUsecase) Update(ctx context.Context, op *domain.Operation, opts WriteOptions) error {
	if op.ID == 0 {
		return fmt.Errorf("%w: operation without id", errcodes.ErrNotFound)
	}
	if err := validator.Struct(op); err != nil {
		return fmt.Errorf("%w: %s", errcodes.ErrInvalidEntityData, validator.Message(err))
	}

	stores := uc.uow.Stores()
	stored, err := stores.Operations.OperationByID(ctx, op.ID)
	if err != nil {
		return notFound(err, "operation", op.ID)
	}
	if err := sameRepository(op, stored.RepoID); err != nil {
		return err
	}
	repo, err := resolveRepository(ctx, stores.Repositories, op)
	if err != nil {
		return err
	}
	if op.Author != stored.Author {
		op.AuthorUID = 0
	}
	if op.Committer != stored.Committer {
		op.CommitterUID = 0
	}
	if err := uc.mapUsers(ctx, repo, op); err != nil {
		return err
	}

	var created []int
	err = uc.uow.Transaction(ctx, func(s repository.Stores) error {
		if err := s.Operations.UpdateOperation(ctx, op); err != nil {
			return notFound(err, "operation", op.ID)
		}
		if !opts.Nested {
			return nil
		}

		owned, err := s.Items.ItemRevisionsByOperation(ctx, op.ID)
		if err != nil {
			return err
		}
		ownedIDs := make(map[uint]bool, len(owned))
		for _, item := range owned {
			ownedIDs[item.ID] = true
		}

		for i := range op.ItemRevisions {
			item := &op.ItemRevisions[i]
			item.OperationID = op.ID
			item.RepoID = op.RepoID
			if item.ID == 0 {
				if err := s.Items.CreateItemRevision(ctx, item); err != nil {
					return err
				}
				created = append(created, i)
				continue
			}
			if !ownedIDs[item.ID] {
				return fmt.Errorf("%w: item revision %d of operation %d", errcodes.ErrNotFound, item.ID, op.ID)
			}
			if err := s.Items.UpdateItemRevision(ctx, item); err != nil {
				return notFound(err, "item revision", item.ID)
			}
		}
		return nil
	})
	if err != nil {
		for _, i := range created {
			op.ItemRevisions[i].ID = 0
		}
		return err
	}

	uc.hooks.Dispatch(ctx, hooks.NewEvent(hooks.ActionUpdate, op))
	return nil
}

func (uc *operationUsecase) UpdateLabels(ctx context.Context, op *domain.Operation) error {
	if op.ID == 0 {
		return fmt.Errorf("%w: operation without id", errcodes.ErrNotFound)
	}
	for i := range op.Labels {
		if err := validator.Struct(&op.Labels[i]); err != nil {
			return fmt.Errorf("%w: label %d: %s", errcodes.ErrInvalidEntityData, i, validator.Message(err))
		}
	}

	savedIDs := labelIDs(op.Labels)
	err := uc.uow.Transaction(ctx, func(s repository.Stores) error {
		stored, err := s.Operations.OperationByID(ctx, op.ID)
		if err != nil {
			return notFound(err, "operation", op.ID)
		}
		if err := sameRepository(op, stored.RepoID); err != nil {
			return err
		}
		op.RepoID = stored.RepoID
		return saveLabels(ctx, s, op.ID, stored.RepoID, op.Labels)
	})
	if err != nil {
		restoreLabelIDs(op.Labels, savedIDs)
		return err
	}

	uc.hooks.Dispatch(ctx, hooks.NewEvent(hooks.ActionUpdate, op))
	return nil
}

func (uc *operationUsecase) Delete(ctx context.Context, op *domain.Operation, opts WriteOptions) error {
	if op.ID == 0 {
		return fmt.Errorf("%w: operation without id", errcodes.ErrNotFound)
	}

	err := uc.uow.Transaction(ctx, func(s repository.Stores) error {
		if opts.Nested {
			if err := s.Items.DeleteItemRevisionsByOperation(ctx, op.ID); err != nil {
				return err
			}
		}
		if err := s.Labels.DeleteOperationLabels(ctx, op.ID); err != nil {
			return err
		}
		return s.Operations.DeleteOperation(ctx, op.ID)
	})
	if err != nil {
		return notFound(err, "operation", op.ID)
	}

	uc.hooks.Dispatch(ctx, hooks.NewEvent(hooks.ActionDelete, op))
	return nil
}

// GetByID loads the operation together with its labels and item revisions.
func (uc *operationUsecase) GetByID(ctx context.Context, id uint) (*domain.Operation, error) {
	s := uc.uow.Stores()

	op, err := s.Operations.OperationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if op.Labels, err = s.Labels.OperationLabels(ctx, id); err != nil {
		return nil, err
	}
	if op.ItemRevisions, err = s.Items.ItemRevisionsByOperation(ctx, id); err != nil {
		return nil, err
	}
	return op, nil
}

func (uc *operationUsecase) GetAll(ctx context.Context, repoID uint, query repository.Query) ([]domain.Operation, error) {
	if query.Conditions == nil {
		query.Conditions = map[string]any{}
	}
	query.Conditions["repo_id"] = repoID
	return uc.uow.Stores().Operations.FindOperations(ctx, query)
}

func (uc *operationUsecase) LoadCommits(ctx context.Context, repoID uint, query repository.Query) ([]domain.Operation, error) {
	if query.Conditions == nil {
		query.Conditions = map[string]any{}
	}
	query.Conditions["type"] = int(domain.OperationCommit)
	return uc.GetAll(ctx, repoID, query)
}

func (uc *operationUsecase) LoadItemRevisions(ctx context.Context, op *domain.Operation) ([]domain.ItemRevision, error) {
	if op.ID == 0 {
		return nil, fmt.Errorf("%w: operation without id", errcodes.ErrNotFound)
	}
	items, err := uc.uow.Stores().Items.ItemRevisionsByOperation(ctx, op.ID)
	if err != nil {
		return nil, err
	}
	op.ItemRevisions = items
	return items, nil
}

func (uc *operationUsecase) FormatRevisionIdentifier(ctx context.Context, op *domain.Operation, format domain.RevisionFormat) (string, error) {
	if op.Revision == "" {
		return fmt.Sprintf("#%d", op.ID), nil
	}
	if format == "" {
		format = domain.RevisionFull
	}

	repo, err := resolveRepository(ctx, uc.uow.Stores().Repositories, op)
	if err != nil {
		return "", err
	}
	b, err := uc.backends.Get(repo.VCS)
	if err != nil {
		return "", err
	}
	return b.FormatRevisionIdentifier(op.Revision, format), nil
}

// mapUsers fills author_uid and committer_uid through the repository's
// mappers when they are not set yet.
func (uc *operationUsecase) mapUsers(ctx context.Context, repo *domain.Repository, op *domain.Operation) error {
	if op.AuthorUID == 0 && op.Author != "" {
		m, err := uc.mappers.AuthorMapper(repo)
		if err != nil {
			return err
		}
		if op.AuthorUID, err = m.MapUsername(ctx, repo, op.Author); err != nil {
			return fmt.Errorf("failed to map author %q: %w", op.Author, err)
		}
	}
	if op.CommitterUID == 0 && op.Committer != "" {
		m, err := uc.mappers.CommitterMapper(repo)
		if err != nil {
			return err
		}
		if op.CommitterUID, err = m.MapUsername(ctx, repo, op.Committer); err != nil {
			return fmt.Errorf("failed to map committer %q: %w", op.Committer, err)
		}
	}
	return nil
}

// sameRepository rejects an operation that names a repository other than the
// one it is stored under. A zero repo_id names no repository.
func sameRepository(op *domain.Operation, repoID uint) error {
	if op.RepoID != 0 && op.RepoID != repoID {
		return fmt.Errorf("%w: operation %d belongs to repository %d, not %d",
			errcodes.ErrInvalidEntityData, op.ID, repoID, op.RepoID)
	}
	if repo := op.Repository; repo != nil && repo.ID != 0 && repo.ID != repoID {
		return fmt.Errorf("%w: operation %d belongs to repository %d, not %d",
			errcodes.ErrInvalidEntityData, op.ID, repoID, repo.ID)
	}
	return nil
}

// saveLabels stores unsaved labels under repoID, reusing an existing label of
// the same type and name, then replaces the operation's associations. Labels
// that already carry an id must belong to repoID.
func saveLabels(ctx context.Context, s repository.Stores, operationID, repoID uint, labels []domain.Label) error {
	var preset []uint
	for i := range labels {
		if labels[i].ID != 0 {
			preset = append(preset, labels[i].ID)
		}
	}
	if len(preset) > 0 {
		found, err := s.Labels.FindLabels(ctx, repository.Query{
			IDs:        preset,
			Conditions: map[string]any{"repo_id": repoID},
		})
		if err != nil {
			return err
		}
		known := make(map[uint]bool, len(found))
		for _, l := range found {
			known[l.ID] = true
		}
		for _, id := range preset {
			if !known[id] {
				return fmt.Errorf("%w: label %d of repository %d", errcodes.ErrNotFound, id, repoID)
			}
		}
	}

	for i := range labels {
		label := &labels[i]
		if label.ID != 0 {
			continue
		}
		label.RepoID = repoID

		existing, err := s.Labels.LabelByName(ctx, label.RepoID, label.Type, label.Name)
		switch {
		case err == nil:
			label.ID = existing.ID
		case errors.Is(err, errcodes.ErrNoRecordFound):
			if err := s.Labels.CreateLabel(ctx, label); err != nil {
				return err
			}
		default:
			return err
		}
	}
	return s.Labels.ReplaceOperationLabels(ctx, operationID, labels)
}

func labelIDs(labels []domain.Label) []uint {
	ids := make([]uint, len(labels))
	for i := range labels {
		ids[i] = labels[i].ID
	}
	return ids
}

// restoreLabelIDs undoes the ids a rolled back transaction assigned.
func restoreLabelIDs(labels []domain.Label, ids []uint) {
	for i := range labels {
		if i < len(ids) {
			labels[i].ID = ids[i]
		}
	}
}
