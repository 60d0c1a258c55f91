package elevenlabs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/acme/voice-dialer/internal/assets"
	"github.com/acme/voice-dialer/internal/config"
	"github.com/acme/voice-dialer/internal/speech"
	"github.com/acme/voice-dialer/pkg/logger"
)

func testClient(t *testing.T, server *httptest.Server, store assets.Store) *Client {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cfg := config.SpeechConfig{
		APIKey:       "key",
		VoiceID:      "voice-1",
		ModelID:      "eleven_turbo_v2",
		OutputFormat: "mp3_44100_128",
		Timeout:      2 * time.Second,
	}
	c := NewClient(cfg, store, "https://example.com/audio", log)
	c.baseURL = server.URL
	c.httpClient = server.Client()
	return c
}

func TestSynthesizeStoresAsset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "key" {
			t.Errorf("missing api key header")
		}
		if !strings.Contains(r.URL.Path, "voice-1") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	store := assets.NewMemoryStore()
	c := testClient(t, server, store)

	asset, err := c.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if asset.Name == "" || !strings.HasSuffix(asset.Name, ".mp3") {
		t.Fatalf("unexpected asset name %q", asset.Name)
	}
	if !strings.HasPrefix(asset.URL, "https://example.com/audio/") {
		t.Fatalf("unexpected asset url %q", asset.URL)
	}

	data, contentType, err := store.Get(context.Background(), asset.Name)
	if err != nil {
		t.Fatalf("stored asset missing: %v", err)
	}
	if string(data) != "mp3-bytes" || contentType != "audio/mpeg" {
		t.Fatalf("stored asset mismatch: %q %q", data, contentType)
	}
}

func TestSynthesizeNonSuccessIsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := testClient(t, server, assets.NewMemoryStore())

	_, err := c.Synthesize(context.Background(), "hello")
	if !errors.Is(err, speech.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestSynthesizeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	defer server.Close()

	store := assets.NewMemoryStore()
	c := testClient(t, server, store)
	c.cfg.Timeout = 50 * time.Millisecond

	_, err := c.Synthesize(context.Background(), "hello")
	if !errors.Is(err, speech.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("no asset should be stored on failure")
	}
}

func TestSynthesizeMissingCredentials(t *testing.T) {
	log, _ := logger.New("test")
	c := NewClient(config.SpeechConfig{Timeout: time.Second}, assets.NewMemoryStore(), "/audio", log)

	_, err := c.Synthesize(context.Background(), "hello")
	if !errors.Is(err, speech.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}
