package twilio

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/acme/voice-dialer/internal/config"
	"github.com/acme/voice-dialer/internal/telephony"
)

type callCreator interface {
	CreateCall(params *api.CreateCallParams) (*api.ApiV2010Call, error)
}

// Provider places outbound calls via the Twilio REST API.
type Provider struct {
	cfg    config.TelephonyConfig
	client callCreator
}

// NewProvider creates a Twilio-backed telephony provider.
func NewProvider(cfg config.TelephonyConfig) *Provider {
	return &Provider{cfg: cfg}
}

// PlaceCall creates an outbound call and returns the provider call SID.
func (p *Provider) PlaceCall(ctx context.Context, req telephony.PlaceCallRequest) (string, error) {
	_ = ctx
	if req.To == "" {
		return "", errors.New("twilio: destination required")
	}
	if p.cfg.AccountSID == "" || p.cfg.AuthToken == "" {
		return "", errors.New("twilio: missing credentials")
	}

	client := p.client
	if client == nil {
		rest := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: p.cfg.AccountSID,
			Password: p.cfg.AuthToken,
		})
		client = rest.Api
	}

	params := &api.CreateCallParams{}
	params.SetTo(string(req.To))
	params.SetFrom(p.cfg.FromNumber)
	params.SetUrl(req.VoiceURL)
	params.SetMethod("POST")
	if req.StatusCallbackURL != "" {
		params.SetStatusCallback(req.StatusCallbackURL)
		params.SetStatusCallbackMethod("POST")
		params.SetStatusCallbackEvent([]string{"completed"})
	}

	resp, err := client.CreateCall(params)
	if err != nil {
		return "", fmt.Errorf("twilio: create call: %w", err)
	}
	if resp == nil || resp.Sid == nil {
		return "", errors.New("twilio: missing call sid")
	}
	return *resp.Sid, nil
}
