// Package hooks notifies observers after entities were inserted, updated or
// deleted. Observers run after the change is committed and cannot undo it.
package hooks

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/just-nibble/versioncontrol/internal/domain"
	"github.com/just-nibble/versioncontrol/internal/metrics"
)

type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event describes one committed entity change.
type Event struct {
	Kind     domain.EntityKind `json:"kind"`
	Action   Action            `json:"action"`
	RepoID   uint              `json:"repo_id"`
	EntityID uint              `json:"entity_id"`
	Entity   domain.Entity     `json:"entity"`
	At       time.Time         `json:"at"`
}

// NewEvent fills RepoID from the entity when it belongs to a repository.
func NewEvent(action Action, entity domain.Entity) Event {
	e := Event{
		Kind:     entity.Kind(),
		Action:   action,
		EntityID: entity.EntityID(),
		Entity:   entity,
		At:       time.Now().UTC(),
	}
	switch v := entity.(type) {
	case domain.RepositoryOwned:
		e.RepoID = v.OwnerRepoID()
	case *domain.Repository:
		e.RepoID = v.ID
	}
	return e
}

// Name is the event name, e.g. "account.insert".
func (e Event) Name() string {
	return fmt.Sprintf("%s.%s", e.Kind, e.Action)
}

type Observer interface {
	Name() string
	Notify(ctx context.Context, e Event) error
}

// Dispatcher fans events out to every observer. Failures are logged and
// counted, never returned.
type Dispatcher struct {
	observers []Observer
	logger    zerolog.Logger
}

func NewDispatcher(logger zerolog.Logger, observers ...Observer) *Dispatcher {
	return &Dispatcher{observers: observers, logger: logger}
}

func (d *Dispatcher) Subscribe(o Observer) {
	d.observers = append(d.observers, o)
}

func (d *Dispatcher) Dispatch(ctx context.Context, e Event) {
	if d == nil {
		return
	}
	for _, o := range d.observers {
		d.notify(ctx, o, e)
	}
}

func (d *Dispatcher) notify(ctx context.Context, o Observer, e Event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.HookFailures.WithLabelValues(o.Name()).Inc()
			d.logger.Error().Str("observer", o.Name()).Str("event", e.Name()).Interface("panic", r).Msg("hook observer panicked")
		}
	}()

	if err := o.Notify(ctx, e); err != nil {
		metrics.HookFailures.WithLabelValues(o.Name()).Inc()
		d.logger.Warn().Err(err).Str("observer", o.Name()).Str("event", e.Name()).Msg("hook observer failed")
	}
}
