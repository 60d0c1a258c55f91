package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acme/voice-dialer/internal/assets"
	"github.com/acme/voice-dialer/internal/config"
	"github.com/acme/voice-dialer/internal/speech"
	"github.com/acme/voice-dialer/pkg/logger"
)

const defaultBaseURL = "https://api.elevenlabs.io"

// Client synthesizes speech through the ElevenLabs one-shot endpoint and
// stores the result in the asset store.
type Client struct {
	cfg        config.SpeechConfig
	store      assets.Store
	httpClient *http.Client
	baseURL    string
	publicBase string
	log        *logger.Logger
}

// NewClient builds a synthesizer. publicBase is the externally reachable
// prefix under which stored assets are served, e.g. "https://host/audio".
func NewClient(cfg config.SpeechConfig, store assets.Store, publicBase string, log *logger.Logger) *Client {
	return &Client{
		cfg:        cfg,
		store:      store,
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
		publicBase: strings.TrimRight(publicBase, "/"),
		log:        log,
	}
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id,omitempty"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize sends text to the TTS endpoint and stores the returned audio
// under a fresh unique name. Failures are tagged timeout, rejected, or
// transport; callers fall back to text readback.
func (c *Client) Synthesize(ctx context.Context, text string) (assets.Asset, error) {
	if c.cfg.APIKey == "" || c.cfg.VoiceID == "" {
		return assets.Asset{}, fmt.Errorf("%w: missing credentials", speech.ErrRejected)
	}

	cctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(synthesisRequest{
		Text:    text,
		ModelID: c.cfg.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.8,
		},
	})
	if err != nil {
		return assets.Asset{}, fmt.Errorf("%w: %v", speech.ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(cctx, http.MethodPost, c.synthesisURL(), bytes.NewReader(body))
	if err != nil {
		return assets.Asset{}, fmt.Errorf("%w: %v", speech.ErrTransport, err)
	}
	req.Header.Set("xi-api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || cctx.Err() != nil {
			return assets.Asset{}, fmt.Errorf("%w: %v", speech.ErrTimeout, err)
		}
		return assets.Asset{}, fmt.Errorf("%w: %v", speech.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return assets.Asset{}, fmt.Errorf("%w: status %d: %s", speech.ErrRejected, resp.StatusCode, string(payload))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return assets.Asset{}, fmt.Errorf("%w: read body: %v", speech.ErrTransport, err)
	}

	name := fmt.Sprintf("%d-%s.mp3", time.Now().UTC().UnixNano(), uuid.NewString())
	if err := c.store.Put(ctx, name, "audio/mpeg", audio); err != nil {
		return assets.Asset{}, fmt.Errorf("%w: store asset: %v", speech.ErrTransport, err)
	}

	c.log.Debug("speech: synthesized asset",
		zap.String("asset", name),
		zap.Int("bytes", len(audio)))

	return assets.Asset{
		Name:        name,
		ContentType: "audio/mpeg",
		URL:         c.publicBase + "/" + name,
	}, nil
}

func (c *Client) synthesisURL() string {
	u := c.baseURL + "/v1/text-to-speech/" + url.PathEscape(c.cfg.VoiceID)
	if c.cfg.OutputFormat != "" {
		q := url.Values{}
		q.Set("output_format", c.cfg.OutputFormat)
		u += "?" + q.Encode()
	}
	return u
}
