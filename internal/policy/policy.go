// Package policy holds the pluggable write access policies and the per
// repository auth handlers consulted before an operation is written.
package policy

import (
	"context"

	"github.com/just-nibble/versioncontrol/internal/domain"
)

// Outcome is what a single policy decided. An Outcome with Allow set
// permits the operation regardless of every other policy.
type Outcome struct {
	Allow   bool
	Reasons []string
}

// Allow overrides all denials, e.g. for administrators.
func Allow() Outcome { return Outcome{Allow: true} }

func Deny(reasons ...string) Outcome { return Outcome{Reasons: reasons} }

// Abstain neither allows nor objects.
func Abstain() Outcome { return Outcome{} }

// WriteAccessPolicy is consulted for every operation about to be written.
type WriteAccessPolicy interface {
	Name() string
	Check(ctx context.Context, op *domain.Operation, items []domain.ItemRevision) (Outcome, error)
}

// Func adapts a function to WriteAccessPolicy.
type Func struct {
	PolicyName string
	Fn         func(ctx context.Context, op *domain.Operation, items []domain.ItemRevision) (Outcome, error)
}

func (f Func) Name() string { return f.PolicyName }

func (f Func) Check(ctx context.Context, op *domain.Operation, items []domain.ItemRevision) (Outcome, error) {
	return f.Fn(ctx, op, items)
}

// AccountAuthorizer can veto a user's account in a repository. An account
// is authorized only if every registered authorizer approves it.
type AccountAuthorizer interface {
	AuthorizeAccount(ctx context.Context, repo *domain.Repository, uid uint) (bool, error)
}
