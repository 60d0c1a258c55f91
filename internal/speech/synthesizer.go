package speech

import (
	"context"
	"errors"

	"github.com/acme/voice-dialer/internal/assets"
)

// Failure tags for synthesis errors. Callers fall back to plain text
// readback on any of them; the tag only matters for logging.
var (
	ErrTimeout   = errors.New("speech: synthesis timed out")
	ErrRejected  = errors.New("speech: synthesis rejected")
	ErrTransport = errors.New("speech: transport error")
)

// Synthesizer converts text into a stored audio asset.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (assets.Asset, error)
}
