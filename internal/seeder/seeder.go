package seeder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/repository"
	"github.com/just-nibble/versioncontrol/internal/usecases"
)

// SeedDatabase inserts the given repositories if the database has none yet.
// It reports how many repositories it created.
func SeedDatabase(ctx context.Context, repos usecases.RepositoryUsecase, seeds []domain.Repository, logger zerolog.Logger) (int, error) {
	existing, err := repos.GetAll(ctx, repository.Query{Limit: 1})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		logger.Debug().Msg("repositories present, skipping seed")
		return 0, nil
	}

	created := 0
	for i := range seeds {
		repo := seeds[i]
		repo.ID = 0
		if err := repos.Insert(ctx, &repo); err != nil {
			return created, fmt.Errorf("seed repository %q: %w", repo.Name, err)
		}
		created++
		logger.Info().Uint("repo_id", repo.ID).Str("name", repo.Name).Str("vcs", repo.VCS).Msg("seeded repository")
	}
	return created, nil
}
