package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/repository"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
)

// resolveRepository returns the entity's repository, loading and attaching
// it when only the id is known.
func resolveRepository(ctx context.Context, repos repository.RepositoryStore, e domain.RepositoryOwned) (*domain.Repository, error) {
	if repo := e.ParentRepository(); repo != nil && repo.ID != 0 {
		return repo, nil
	}
	if e.OwnerRepoID() == 0 {
		return nil, errcodes.ErrRepositoryUnresolved
	}

	repo, err := repos.RepositoryByID(ctx, e.OwnerRepoID())
	if err != nil {
		if errors.Is(err, errcodes.ErrNoRecordFound) {
			return nil, fmt.Errorf("%w: repository %d", errcodes.ErrRepositoryUnresolved, e.OwnerRepoID())
		}
		return nil, err
	}
	e.AttachRepository(repo)
	return repo, nil
}
