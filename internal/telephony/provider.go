package telephony

import (
	"context"

	"github.com/acme/voice-dialer/internal/domain"
)

// PlaceCallRequest describes one outbound call attempt.
type PlaceCallRequest struct {
	To domain.Destination
	// VoiceURL is fetched by the provider once the call is answered; it
	// drives the conversation markup exchange.
	VoiceURL string
	// StatusCallbackURL is notified when the call completes.
	StatusCallbackURL string
}

// Provider abstracts the telephony integration.
type Provider interface {
	PlaceCall(ctx context.Context, req PlaceCallRequest) (callID string, err error)
}
