package openai

import (
	"context"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/acme/voice-dialer/internal/config"
	"github.com/acme/voice-dialer/pkg/logger"
)

const defaultSystemPrompt = "You are a friendly phone assistant. Keep answers short, spoken-style, and under three sentences."

const defaultFallback = "I'm sorry, I'm having a little trouble right now. Thank you for your time, goodbye."

type completer interface {
	New(ctx context.Context, body openaisdk.ChatCompletionNewParams, opts ...option.RequestOption) (*openaisdk.ChatCompletion, error)
}

// Generator produces replies through an OpenAI-compatible completion API.
type Generator struct {
	cfg    config.ReplyConfig
	client completer
	log    *logger.Logger
}

// NewGenerator builds a generator from config.
func NewGenerator(cfg config.ReplyConfig, log *logger.Logger) *Generator {
	opts := []option.RequestOption{option.WithAPIKey(strings.TrimSpace(cfg.APIKey))}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	client := openaisdk.NewClient(opts...)
	svc := client.Chat.Completions
	return &Generator{cfg: cfg, client: &svc, log: log}
}

// Reply sends the utterance with fixed system framing and returns the first
// candidate's text. Any failure yields the configured fallback string.
func (g *Generator) Reply(ctx context.Context, utterance string) string {
	system := g.cfg.SystemPrompt
	if system == "" {
		system = defaultSystemPrompt
	}

	cctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := g.client.New(cctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(g.cfg.Model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(system),
			openaisdk.UserMessage(utterance),
		},
	})
	if err != nil {
		g.log.Warn("reply generator: completion failed", zap.Error(err))
		return g.fallback()
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		g.log.Warn("reply generator: empty completion")
		return g.fallback()
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

func (g *Generator) fallback() string {
	if g.cfg.Fallback != "" {
		return g.cfg.Fallback
	}
	return defaultFallback
}
