package policy

import (
	"context"
	"fmt"
	"sync"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/pkg/errcodes"
)

const FreeForAllName = "ffa"

// AuthHandler decides what a user may do to a repository's branches and tags.
type AuthHandler interface {
	AuthAccess(uid uint) bool
	AuthBranchCreate(uid uint) bool
	AuthBranchUpdate(uid uint, branch domain.Label) bool
	AuthBranchDelete(uid uint, branch domain.Label) bool
	AuthTagCreate(uid uint) bool
	AuthTagUpdate(uid uint, tag domain.Label) bool
	AuthTagDelete(uid uint, tag domain.Label) bool
	// ErrorMessages explains the last refusal, if the handler keeps any.
	ErrorMessages() []string
}

// HandlerFactory builds the handler of one repository.
type HandlerFactory func(repo *domain.Repository) AuthHandler

// FreeForAll lets everyone do everything.
type FreeForAll struct{}

func (FreeForAll) AuthAccess(uint) bool                     { return true }
func (FreeForAll) AuthBranchCreate(uint) bool               { return true }
func (FreeForAll) AuthBranchUpdate(uint, domain.Label) bool { return true }
func (FreeForAll) AuthBranchDelete(uint, domain.Label) bool { return true }
func (FreeForAll) AuthTagCreate(uint) bool                  { return true }
func (FreeForAll) AuthTagUpdate(uint, domain.Label) bool    { return true }
func (FreeForAll) AuthTagDelete(uint, domain.Label) bool    { return true }
func (FreeForAll) ErrorMessages() []string                  { return nil }

// Handlers maps auth handler plugin names to their factories.
type Handlers struct {
	mu        sync.RWMutex
	factories map[string]HandlerFactory
}

// NewHandlers registers the free-for-all handler.
func NewHandlers() *Handlers {
	h := &Handlers{factories: make(map[string]HandlerFactory)}
	h.Register(FreeForAllName, func(*domain.Repository) AuthHandler { return FreeForAll{} })
	return h
}

func (h *Handlers) Register(name string, f HandlerFactory) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.factories[name] = f
}

// For returns the handler assigned to the repository, or nil when it has none.
func (h *Handlers) For(repo *domain.Repository) (AuthHandler, error) {
	name := repo.Plugin(domain.PluginAuthHandler)
	if name == "" {
		return nil, nil
	}

	h.mu.RLock()
	f, ok := h.factories[name]
	h.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: auth handler %q", errcodes.ErrUnknownPlugin, name)
	}
	return f(repo), nil
}

// AuthorizeAccount vetoes accounts the repository's handler refuses access to.
func (h *Handlers) AuthorizeAccount(_ context.Context, repo *domain.Repository, uid uint) (bool, error) {
	handler, err := h.For(repo)
	if err != nil {
		return false, err
	}
	if handler == nil {
		return true, nil
	}
	return handler.AuthAccess(uid), nil
}

// HandlerPolicy applies the repository's auth handler to operations.
type HandlerPolicy struct {
	handlers *Handlers
}

func NewHandlerPolicy(handlers *Handlers) *HandlerPolicy {
	return &HandlerPolicy{handlers: handlers}
}

func (p *HandlerPolicy) Name() string { return "auth_handler" }

func (p *HandlerPolicy) Check(_ context.Context, op *domain.Operation, _ []domain.ItemRevision) (Outcome, error) {
	if op.Repository == nil {
		return Abstain(), nil
	}
	handler, err := p.handlers.For(op.Repository)
	if err != nil || handler == nil {
		return Abstain(), err
	}

	uid := op.CommitterUID
	if !handler.AuthAccess(uid) {
		return Deny(refusal(handler, fmt.Sprintf("You are not allowed to write to the %s repository.", op.Repository.Name))...), nil
	}

	var reasons []string
	for _, label := range op.Labels {
		if !authLabel(handler, uid, label) {
			msg := fmt.Sprintf("You are not allowed to %s the %s %q.", verb(label.EffectiveAction()), labelNoun(label), label.Name)
			reasons = append(reasons, refusal(handler, msg)...)
		}
	}
	if len(reasons) > 0 {
		return Deny(reasons...), nil
	}
	return Abstain(), nil
}

func authLabel(h AuthHandler, uid uint, label domain.Label) bool {
	action := label.EffectiveAction()
	if label.Type == domain.LabelTag {
		switch action {
		case domain.ActionAdded:
			return h.AuthTagCreate(uid)
		case domain.ActionDeleted:
			return h.AuthTagDelete(uid, label)
		default:
			return h.AuthTagUpdate(uid, label)
		}
	}
	switch action {
	case domain.ActionAdded:
		return h.AuthBranchCreate(uid)
	case domain.ActionDeleted:
		return h.AuthBranchDelete(uid, label)
	default:
		return h.AuthBranchUpdate(uid, label)
	}
}

func refusal(h AuthHandler, fallback string) []string {
	if msgs := h.ErrorMessages(); len(msgs) > 0 {
		return msgs
	}
	return []string{fallback}
}

func verb(a domain.Action) string {
	switch a {
	case domain.ActionAdded:
		return "create"
	case domain.ActionDeleted:
		return "delete"
	default:
		return "update"
	}
}

func labelNoun(l domain.Label) string {
	if l.Type == domain.LabelTag {
		return "tag"
	}
	return "branch"
}
