package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/acme/voice-dialer/internal/domain"
	"github.com/acme/voice-dialer/internal/telephony"
	"github.com/acme/voice-dialer/pkg/logger"
)

type fakeProvider struct {
	mu      sync.Mutex
	placed  []domain.Destination
	failFor map[domain.Destination]error
	nextSID int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{failFor: make(map[domain.Destination]error)}
}

func (f *fakeProvider) PlaceCall(_ context.Context, req telephony.PlaceCallRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[req.To]; ok {
		return "", err
	}
	f.placed = append(f.placed, req.To)
	f.nextSID++
	return fmt.Sprintf("CA%d", f.nextSID), nil
}

func (f *fakeProvider) placedCalls() []domain.Destination {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Destination, len(f.placed))
	copy(out, f.placed)
	return out
}

func newOrchestrator(t *testing.T, provider telephony.Provider) *Orchestrator {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return New(Options{
		Provider:  provider,
		Logger:    log,
		VoiceURL:  "https://example.com/voice",
		StatusURL: "https://example.com/voice/status",
		Timeout:   time.Second,
	})
}

func TestEnqueueDispatchesSingleCall(t *testing.T) {
	provider := newFakeProvider()
	o := newOrchestrator(t, provider)
	ctx := context.Background()

	o.Enqueue(ctx, []domain.Destination{"+15550001111", "+15550002222"})

	placed := provider.placedCalls()
	if len(placed) != 1 {
		t.Fatalf("expected exactly one placed call, got %d", len(placed))
	}
	if placed[0] != "+15550001111" {
		t.Fatalf("expected FIFO order, first call to %s", placed[0])
	}
	if _, active := o.Active(); !active {
		t.Fatal("gate should be active after dispatch")
	}
	if o.Pending() != 1 {
		t.Fatalf("expected one pending destination, got %d", o.Pending())
	}
}

func TestCompletionAdvancesQueueInOrder(t *testing.T) {
	provider := newFakeProvider()
	o := newOrchestrator(t, provider)
	ctx := context.Background()

	o.Enqueue(ctx, []domain.Destination{"+15550001111", "+15550002222"})

	callID, _ := o.Active()
	o.OnCallCompleted(ctx, callID)

	placed := provider.placedCalls()
	if len(placed) != 2 {
		t.Fatalf("expected two placed calls, got %d", len(placed))
	}
	if placed[1] != "+15550002222" {
		t.Fatalf("expected second call to +15550002222, got %s", placed[1])
	}

	callID, _ = o.Active()
	o.OnCallCompleted(ctx, callID)

	if _, active := o.Active(); active {
		t.Fatal("gate should be cleared with empty queue")
	}
	if o.Pending() != 0 {
		t.Fatalf("queue should be drained, got %d", o.Pending())
	}
	if len(provider.placedCalls()) != 2 {
		t.Fatal("no further dispatch expected after queue drained")
	}
}

func TestCompletionWithEmptyQueueIsIdempotent(t *testing.T) {
	provider := newFakeProvider()
	o := newOrchestrator(t, provider)
	ctx := context.Background()

	o.OnCallCompleted(ctx, "CA-unknown")
	o.OnCallCompleted(ctx, "CA-unknown")

	if _, active := o.Active(); active {
		t.Fatal("gate must stay cleared")
	}
	if len(provider.placedCalls()) != 0 {
		t.Fatal("no dispatch expected")
	}
}

func TestPlacementFailureDropsDestinationAndContinues(t *testing.T) {
	provider := newFakeProvider()
	provider.failFor["+15550001111"] = errors.New("refused")
	o := newOrchestrator(t, provider)
	ctx := context.Background()

	o.Enqueue(ctx, []domain.Destination{"+15550001111", "+15550002222"})

	placed := provider.placedCalls()
	if len(placed) != 1 || placed[0] != "+15550002222" {
		t.Fatalf("expected refused destination dropped and next dialed, got %v", placed)
	}
	if _, active := o.Active(); !active {
		t.Fatal("gate should be active for the surviving call")
	}
}

func TestAllPlacementsFailLeavesGateCleared(t *testing.T) {
	provider := newFakeProvider()
	provider.failFor["+15550001111"] = errors.New("refused")
	provider.failFor["+15550002222"] = errors.New("refused")
	o := newOrchestrator(t, provider)

	o.Enqueue(context.Background(), []domain.Destination{"+15550001111", "+15550002222"})

	if _, active := o.Active(); active {
		t.Fatal("gate must be cleared when every placement is refused")
	}
	if o.Pending() != 0 {
		t.Fatalf("queue should be drained, got %d", o.Pending())
	}
}

func TestConcurrentEnqueueAndCompletionKeepsSingleFlight(t *testing.T) {
	provider := newFakeProvider()
	o := newOrchestrator(t, provider)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o.Enqueue(ctx, []domain.Destination{
				domain.Destination(fmt.Sprintf("+1555000%04d", i)),
			})
		}(i)
	}
	wg.Wait()

	// Drive completions until the queue drains; at each step at most one
	// call may be in flight.
	total := len(provider.placedCalls())
	for {
		callID, active := o.Active()
		if !active {
			break
		}
		o.OnCallCompleted(ctx, callID)
		now := len(provider.placedCalls())
		if now > total+1 {
			t.Fatalf("more than one call dispatched per completion: %d -> %d", total, now)
		}
		total = now
	}

	if len(provider.placedCalls()) != 8 {
		t.Fatalf("expected 8 dispatched calls, got %d", len(provider.placedCalls()))
	}
	if o.Pending() != 0 {
		t.Fatalf("queue should be drained, got %d", o.Pending())
	}
}
