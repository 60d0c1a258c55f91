package twilio

import (
	"context"
	"errors"
	"testing"

	api "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/acme/voice-dialer/internal/config"
	"github.com/acme/voice-dialer/internal/telephony"
)

type stubCreator struct {
	last *api.CreateCallParams
	sid  string
	err  error
}

func (s *stubCreator) CreateCall(params *api.CreateCallParams) (*api.ApiV2010Call, error) {
	s.last = params
	if s.err != nil {
		return nil, s.err
	}
	return &api.ApiV2010Call{Sid: &s.sid}, nil
}

func testConfig() config.TelephonyConfig {
	return config.TelephonyConfig{
		AccountSID: "AC1",
		AuthToken:  "token",
		FromNumber: "+15550009999",
	}
}

func TestPlaceCallSetsParams(t *testing.T) {
	stub := &stubCreator{sid: "CA123"}
	p := NewProvider(testConfig())
	p.client = stub

	sid, err := p.PlaceCall(context.Background(), telephony.PlaceCallRequest{
		To:                "+15550001111",
		VoiceURL:          "https://example.com/voice",
		StatusCallbackURL: "https://example.com/voice/status",
	})
	if err != nil {
		t.Fatalf("place call: %v", err)
	}
	if sid != "CA123" {
		t.Fatalf("expected sid CA123, got %s", sid)
	}
	if stub.last == nil || stub.last.To == nil || *stub.last.To != "+15550001111" {
		t.Fatalf("expected To param")
	}
	if stub.last.From == nil || *stub.last.From != "+15550009999" {
		t.Fatalf("expected From param")
	}
	if stub.last.Url == nil || *stub.last.Url != "https://example.com/voice" {
		t.Fatalf("expected Url param")
	}
	if stub.last.StatusCallback == nil || *stub.last.StatusCallback != "https://example.com/voice/status" {
		t.Fatalf("expected StatusCallback param")
	}
}

func TestPlaceCallRejectsEmptyDestination(t *testing.T) {
	p := NewProvider(testConfig())
	p.client = &stubCreator{sid: "CA1"}

	if _, err := p.PlaceCall(context.Background(), telephony.PlaceCallRequest{}); err == nil {
		t.Fatal("expected error for empty destination")
	}
}

func TestPlaceCallPropagatesProviderError(t *testing.T) {
	stub := &stubCreator{err: errors.New("refused")}
	p := NewProvider(testConfig())
	p.client = stub

	_, err := p.PlaceCall(context.Background(), telephony.PlaceCallRequest{To: "+15550001111"})
	if err == nil {
		t.Fatal("expected error from provider")
	}
}
