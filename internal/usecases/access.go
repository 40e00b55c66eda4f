package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/metrics"
	"github.com/just-nibble/versioncontrol/internal/policy"
	"github.com/just-nibble/versioncontrol/internal/repository"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
)

const emptyMessageReason = "You have to provide a log message."

// AccessUsecase decides whether an operation may be written before it exists.
type AccessUsecase interface {
	// Evaluate returns an error only when the request cannot be evaluated,
	// a denial is a result.
	Evaluate(ctx context.Context, req domain.AccessRequest) (domain.AccessResult, error)
	// RegisterPolicy adds a policy consulted after the built in checks.
	RegisterPolicy(p policy.WriteAccessPolicy)
}

type accessUsecase struct {
	repos    repository.RepositoryStore
	accounts repository.AccountStore
	repoUC   RepositoryUsecase
	policies []policy.WriteAccessPolicy
	log      zerolog.Logger
}

func NewAccessUsecase(uow repository.UnitOfWork, repoUC RepositoryUsecase, log zerolog.Logger, policies ...policy.WriteAccessPolicy) AccessUsecase {
	s := uow.Stores()
	return &accessUsecase{
		repos:    s.Repositories,
		accounts: s.Accounts,
		repoUC:   repoUC,
		policies: policies,
		log:      log,
	}
}

func (uc *accessUsecase) RegisterPolicy(p policy.WriteAccessPolicy) {
	uc.policies = append(uc.policies, p)
}

func (uc *accessUsecase) Evaluate(ctx context.Context, req domain.AccessRequest) (domain.AccessResult, error) {
	result, err := uc.evaluate(ctx, req)
	if err != nil {
		metrics.AccessDecisions.WithLabelValues("error").Inc()
		return domain.AccessResult{}, err
	}

	outcome := "denied"
	if result.Permitted {
		outcome = "permitted"
	}
	metrics.AccessDecisions.WithLabelValues(outcome).Inc()
	zerolog.Ctx(ctx).Debug().Str("type", req.Type.String()).Str("outcome", outcome).Strs("reasons", result.Reasons).Msg("write access evaluated")
	return result, nil
}

func (uc *accessUsecase) evaluate(ctx context.Context, req domain.AccessRequest) (domain.AccessResult, error) {
	repo, err := uc.repository(ctx, req)
	if err != nil {
		return domain.AccessResult{}, err
	}
	req.Repository = repo

	if req.CommitterUID == 0 && req.Committer != "" {
		uid, err := uc.repoUC.GetAccountUIDForUsername(ctx, repo, req.Committer, true)
		if err != nil && !errors.Is(err, errcodes.ErrNoRecordFound) {
			return domain.AccessResult{}, err
		}
		req.CommitterUID = uid
	}

	if !repo.AllowUnauthorizedAccess {
		ok, err := uc.hasAuthorizedAccount(ctx, repo, req.CommitterUID)
		if err != nil {
			return domain.AccessResult{}, err
		}
		if !ok {
			return domain.Deny(fmt.Sprintf("%s does not have an approved account in the %s repository.",
				committerName(req), repo.Name)), nil
		}
	}

	if req.Message != nil && strings.TrimSpace(*req.Message) == "" {
		return domain.Deny(emptyMessageReason), nil
	}

	op := req.Operation()
	var reasons []string
	for _, p := range uc.policies {
		outcome, err := p.Check(ctx, op, req.Items)
		if err != nil {
			return domain.AccessResult{}, fmt.Errorf("policy %s: %w", p.Name(), err)
		}
		if outcome.Allow {
			return domain.Permit(), nil
		}
		reasons = append(reasons, outcome.Reasons...)
	}
	if len(reasons) > 0 {
		return domain.Deny(reasons...), nil
	}
	return domain.Permit(), nil
}

func (uc *accessUsecase) repository(ctx context.Context, req domain.AccessRequest) (*domain.Repository, error) {
	if req.Repository != nil && req.Repository.ID != 0 {
		return req.Repository, nil
	}
	if req.RepoID == 0 {
		return nil, errcodes.ErrRepositoryUnresolved
	}
	repo, err := uc.repos.RepositoryByID(ctx, req.RepoID)
	if err != nil {
		if errors.Is(err, errcodes.ErrNoRecordFound) {
			return nil, fmt.Errorf("%w: repository %d", errcodes.ErrRepositoryUnresolved, req.RepoID)
		}
		return nil, err
	}
	return repo, nil
}

func (uc *accessUsecase) hasAuthorizedAccount(ctx context.Context, repo *domain.Repository, uid uint) (bool, error) {
	if uid == 0 {
		return false, nil
	}
	if _, err := uc.accounts.AccountByUID(ctx, repo.ID, uid); err != nil {
		if errors.Is(err, errcodes.ErrNoRecordFound) {
			return false, nil
		}
		return false, err
	}
	return uc.repoUC.IsAccountAuthorized(ctx, repo, uid)
}

func committerName(req domain.AccessRequest) string {
	if req.Committer != "" {
		return fmt.Sprintf("The user %q", req.Committer)
	}
	return "The committer"
}
