package events

import (
	"context"

	"github.com/acme/voice-dialer/internal/domain"
)

// Publisher emits call lifecycle events for downstream consumers. Publishing
// is best-effort observability; failures must never affect dispatch.
type Publisher interface {
	Publish(ctx context.Context, event domain.CallEvent) error
	Close() error
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

// Publish discards the event.
func (NopPublisher) Publish(context.Context, domain.CallEvent) error { return nil }

// Close is a no-op.
func (NopPublisher) Close() error { return nil }
