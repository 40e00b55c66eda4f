package hooks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/just-nibble/versioncontrol/internal/metrics"
)

// LogObserver writes every event to the logger.
type LogObserver struct {
	logger zerolog.Logger
}

func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) Name() string { return "log" }

func (o *LogObserver) Notify(_ context.Context, e Event) error {
	o.logger.Info().
		Str("event", e.Name()).
		Uint("repo_id", e.RepoID).
		Uint("entity_id", e.EntityID).
		Msg("entity changed")
	return nil
}

// MetricsObserver counts events per kind and action.
type MetricsObserver struct{}

func (MetricsObserver) Name() string { return "metrics" }

func (MetricsObserver) Notify(_ context.Context, e Event) error {
	metrics.EntityEvents.WithLabelValues(string(e.Kind), string(e.Action)).Inc()
	return nil
}

// Publisher is the part of *nats.Conn the NATS observer needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSObserver publishes events as JSON on <prefix>.<kind>.<action>.
type NATSObserver struct {
	pub    Publisher
	prefix string
}

func NewNATSObserver(pub Publisher, prefix string) *NATSObserver {
	return &NATSObserver{pub: pub, prefix: prefix}
}

// ConnectNATS dials the server and wraps the connection in an observer.
func ConnectNATS(url, prefix string) (*NATSObserver, *nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name("versioncontrol"))
	if err != nil {
		return nil, nil, fmt.Errorf("nats connect: %w", err)
	}
	return NewNATSObserver(nc, prefix), nc, nil
}

func (o *NATSObserver) Name() string { return "nats" }

func (o *NATSObserver) Subject(e Event) string {
	return fmt.Sprintf("%s.%s.%s", o.prefix, e.Kind, e.Action)
}

func (o *NATSObserver) Notify(_ context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Name(), err)
	}
	if err := o.pub.Publish(o.Subject(e), data); err != nil {
		return fmt.Errorf("nats publish %s: %w", o.Subject(e), err)
	}
	return nil
}
