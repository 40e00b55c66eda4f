package backend

import (
	"context"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/repository"
)

type repositoryController struct {
	store repository.RepositoryStore
	vcs   string
}

// load only returns repositories managed by the controller's backend.
func (c repositoryController) load(ctx context.Context, query repository.Query) ([]domain.Entity, error) {
	query.Conditions["vcs"] = c.vcs
	repos, err := c.store.FindRepositories(ctx, query)
	if err != nil {
		return nil, err
	}
	entities := make([]domain.Entity, 0, len(repos))
	for i := range repos {
		entities = append(entities, &repos[i])
	}
	return entities, nil
}

type accountController struct {
	store repository.AccountStore
}

func (c accountController) load(ctx context.Context, query repository.Query) ([]domain.Entity, error) {
	accounts, err := c.store.FindAccounts(ctx, query)
	if err != nil {
		return nil, err
	}
	entities := make([]domain.Entity, 0, len(accounts))
	for i := range accounts {
		entities = append(entities, &accounts[i])
	}
	return entities, nil
}

type operationController struct {
	store repository.OperationStore
}

func (c operationController) load(ctx context.Context, query repository.Query) ([]domain.Entity, error) {
	ops, err := c.store.FindOperations(ctx, query)
	if err != nil {
		return nil, err
	}
	entities := make([]domain.Entity, 0, len(ops))
	for i := range ops {
		entities = append(entities, &ops[i])
	}
	return entities, nil
}

type itemController struct {
	store repository.ItemRevisionStore
}

func (c itemController) load(ctx context.Context, query repository.Query) ([]domain.Entity, error) {
	items, err := c.store.FindItemRevisions(ctx, query)
	if err != nil {
		return nil, err
	}
	entities := make([]domain.Entity, 0, len(items))
	for i := range items {
		entities = append(entities, &items[i])
	}
	return entities, nil
}

type labelController struct {
	store repository.LabelStore
	typ   domain.LabelType
}

func (c labelController) load(ctx context.Context, query repository.Query) ([]domain.Entity, error) {
	query.Conditions["type"] = int(c.typ)
	labels, err := c.store.FindLabels(ctx, query)
	if err != nil {
		return nil, err
	}
	entities := make([]domain.Entity, 0, len(labels))
	for i := range labels {
		entities = append(entities, &labels[i])
	}
	return entities, nil
}
