package dispatch

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/acme/voice-dialer/internal/domain"
	"github.com/acme/voice-dialer/internal/events"
	"github.com/acme/voice-dialer/internal/telephony"
	"github.com/acme/voice-dialer/pkg/logger"
)

// Orchestrator owns the pending-destination queue and the single-flight gate.
// The queue and gate are one shared unit guarded by one mutex; enqueue and
// completion callbacks arrive on concurrent requests and must serialize their
// check-and-set against the queue pop. At most one call is ever active.
type Orchestrator struct {
	mu           sync.Mutex
	queue        []domain.Destination
	active       bool
	activeCallID string
	activeDest   domain.Destination

	provider  telephony.Provider
	publisher events.Publisher
	log       *logger.Logger

	voiceURL  string
	statusURL string
	timeout   time.Duration
}

// Options configures an orchestrator.
type Options struct {
	Provider  telephony.Provider
	Publisher events.Publisher
	Logger    *logger.Logger
	VoiceURL  string
	StatusURL string
	// Timeout bounds each call placement request.
	Timeout time.Duration
}

// New constructs an orchestrator with an empty queue and a cleared gate.
func New(opts Options) *Orchestrator {
	if opts.Publisher == nil {
		opts.Publisher = events.NopPublisher{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Orchestrator{
		provider:  opts.Provider,
		publisher: opts.Publisher,
		log:       opts.Logger,
		voiceURL:  opts.VoiceURL,
		statusURL: opts.StatusURL,
		timeout:   opts.Timeout,
	}
}

// Enqueue appends destinations in order and starts dialing if idle.
func (o *Orchestrator) Enqueue(ctx context.Context, dests []domain.Destination) {
	if len(dests) == 0 {
		return
	}
	o.mu.Lock()
	o.queue = append(o.queue, dests...)
	pending := len(o.queue)
	o.mu.Unlock()

	o.log.Info("dispatch: enqueued destinations",
		zap.Int("count", len(dests)),
		zap.Int("pending", pending))

	o.dispatchNext(ctx)
}

// OnCallCompleted clears the gate for callID and advances the queue. Safe to
// call with an unknown or stale call id; completion is always acknowledged.
func (o *Orchestrator) OnCallCompleted(ctx context.Context, callID string) {
	o.mu.Lock()
	dest := domain.Destination("")
	if o.activeCallID == callID {
		dest = o.activeDest
	}
	o.active = false
	o.activeCallID = ""
	o.activeDest = ""
	o.mu.Unlock()

	o.log.Info("dispatch: call completed", zap.String("call_id", callID))
	o.publish(ctx, domain.CallEvent{
		CallID:      callID,
		Destination: dest,
		Type:        domain.CallEventCompleted,
		OccurredAt:  time.Now().UTC(),
	})

	o.dispatchNext(ctx)
}

// Pending reports the number of queued destinations.
func (o *Orchestrator) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

// Active reports the in-flight call id, if any.
func (o *Orchestrator) Active() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.activeCallID, o.active
}

// dispatchNext pops the front destination and places a call. No-op while the
// gate is active or the queue is empty. A refused placement clears the gate,
// drops the destination, and moves on to the next one.
func (o *Orchestrator) dispatchNext(ctx context.Context) {
	tracer := otel.Tracer("dialer.dispatch")

	for {
		o.mu.Lock()
		if o.active || len(o.queue) == 0 {
			o.mu.Unlock()
			return
		}
		dest := o.queue[0]
		o.queue = o.queue[1:]
		o.active = true
		o.activeDest = dest
		o.mu.Unlock()

		sctx, span := tracer.Start(ctx, "dispatch.place_call", trace.WithAttributes(
			attribute.String("call.destination", dest.String()),
		))

		callCtx, cancel := context.WithTimeout(sctx, o.timeout)
		callID, err := o.provider.PlaceCall(callCtx, telephony.PlaceCallRequest{
			To:                dest,
			VoiceURL:          o.voiceURL,
			StatusCallbackURL: o.statusURL,
		})
		cancel()

		if err != nil {
			span.RecordError(err)
			span.End()

			o.mu.Lock()
			o.active = false
			o.activeDest = ""
			o.mu.Unlock()

			o.log.Warn("dispatch: call placement refused, dropping destination",
				zap.String("destination", dest.String()),
				zap.Error(err))
			o.publish(sctx, domain.CallEvent{
				Destination: dest,
				Type:        domain.CallEventPlacementFailed,
				Error:       err.Error(),
				OccurredAt:  time.Now().UTC(),
			})
			continue
		}

		o.mu.Lock()
		o.activeCallID = callID
		o.mu.Unlock()

		span.SetAttributes(attribute.String("call.id", callID))
		span.End()

		o.log.Info("dispatch: call placed",
			zap.String("call_id", callID),
			zap.String("destination", dest.String()))
		o.publish(sctx, domain.CallEvent{
			CallID:      callID,
			Destination: dest,
			Type:        domain.CallEventDispatched,
			OccurredAt:  time.Now().UTC(),
		})
		return
	}
}

func (o *Orchestrator) publish(ctx context.Context, event domain.CallEvent) {
	if err := o.publisher.Publish(ctx, event); err != nil {
		o.log.Warn("dispatch: publish event", zap.Error(err))
	}
}
