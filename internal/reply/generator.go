package reply

import "context"

// Generator turns a caller utterance into a spoken reply. Implementations
// must always return usable text; external failures are absorbed into a fixed
// fallback so conversational flow never branches on errors.
type Generator interface {
	Reply(ctx context.Context, utterance string) string
}
