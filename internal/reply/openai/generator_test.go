package openai

import (
	"context"
	"errors"
	"testing"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/acme/voice-dialer/internal/config"
	"github.com/acme/voice-dialer/pkg/logger"
)

type stubCompleter struct {
	resp *openaisdk.ChatCompletion
	err  error
	last openaisdk.ChatCompletionNewParams
}

func (s *stubCompleter) New(_ context.Context, body openaisdk.ChatCompletionNewParams, _ ...option.RequestOption) (*openaisdk.ChatCompletion, error) {
	s.last = body
	return s.resp, s.err
}

func testGenerator(t *testing.T, stub *stubCompleter) *Generator {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	cfg := config.ReplyConfig{Model: "gpt-4o-mini", Timeout: time.Second, Fallback: "Sorry, goodbye."}
	return &Generator{cfg: cfg, client: stub, log: log}
}

func TestReplyReturnsFirstChoice(t *testing.T) {
	stub := &stubCompleter{resp: &openaisdk.ChatCompletion{
		Choices: []openaisdk.ChatCompletionChoice{
			{Message: openaisdk.ChatCompletionMessage{Content: " Hello there. "}},
		},
	}}
	g := testGenerator(t, stub)

	got := g.Reply(context.Background(), "hi")
	if got != "Hello there." {
		t.Fatalf("expected trimmed first choice, got %q", got)
	}
	if len(stub.last.Messages) != 2 {
		t.Fatalf("expected system framing plus utterance, got %d messages", len(stub.last.Messages))
	}
}

func TestReplyFailureYieldsFallback(t *testing.T) {
	stub := &stubCompleter{err: errors.New("upstream down")}
	g := testGenerator(t, stub)

	got := g.Reply(context.Background(), "hi")
	if got != "Sorry, goodbye." {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got == "" {
		t.Fatal("fallback must be non-empty")
	}
}

func TestReplyEmptyCompletionYieldsFallback(t *testing.T) {
	stub := &stubCompleter{resp: &openaisdk.ChatCompletion{}}
	g := testGenerator(t, stub)

	if got := g.Reply(context.Background(), "hi"); got != "Sorry, goodbye." {
		t.Fatalf("expected fallback, got %q", got)
	}
}
