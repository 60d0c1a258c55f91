package conversation

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/acme/voice-dialer/internal/config"
	"github.com/acme/voice-dialer/internal/domain"
	"github.com/acme/voice-dialer/internal/reply"
	"github.com/acme/voice-dialer/internal/speech"
	"github.com/acme/voice-dialer/internal/twiml"
	"github.com/acme/voice-dialer/pkg/logger"
)

const (
	defaultIntro   = "Hello! This is an automated assistant calling. How are you doing today?"
	defaultApology = "Sorry, I didn't catch that. Thank you for your time, goodbye."
)

// Engine sequences the per-call conversation: intro playback, speech capture,
// reply generation, reply synthesis, termination. Every request resolves to a
// terminal or capturing markup response; no path leaves the call hanging.
type Engine struct {
	sessions  *SessionStore
	replies   reply.Generator
	speech    speech.Synthesizer
	cfg       config.ConversationConfig
	voicePath string
	log       *logger.Logger
}

// NewEngine builds a conversation engine. voicePath is the action URL the
// provider posts captured speech back to.
func NewEngine(
	cfg config.ConversationConfig,
	sessions *SessionStore,
	replies reply.Generator,
	synth speech.Synthesizer,
	voicePath string,
	log *logger.Logger,
) *Engine {
	return &Engine{
		sessions:  sessions,
		replies:   replies,
		speech:    synth,
		cfg:       cfg,
		voicePath: voicePath,
		log:       log,
	}
}

// HandleVoice advances the state machine for callID and returns the markup
// the telephony provider should execute next. utterance is the captured
// speech transcript, empty on the first fetch.
func (e *Engine) HandleVoice(ctx context.Context, callID, utterance string) *twiml.Document {
	session, created := e.sessions.Obtain(callID)
	log := e.log.WithCall(callID)

	if created || session.State == domain.SessionStateIntro {
		return e.handleIntro(ctx, session, log)
	}
	return e.handleUtterance(ctx, session, strings.TrimSpace(utterance), log)
}

// EndSession destroys per-call state once the provider reports completion.
func (e *Engine) EndSession(callID string) {
	e.sessions.Remove(callID)
}

func (e *Engine) handleIntro(ctx context.Context, session *Session, log *logger.Logger) *twiml.Document {
	intro := e.cfg.Intro
	if intro == "" {
		intro = defaultIntro
	}

	gather := twiml.Gather{
		Input:   "speech",
		Timeout: e.gatherTimeoutSeconds(),
		Action:  e.voicePath,
		Method:  "POST",
	}

	asset, err := e.speech.Synthesize(ctx, intro)
	if err != nil {
		log.Warn("conversation: intro synthesis failed, speaking text", zap.Error(err))
		gather.Verbs = []twiml.Verb{twiml.Say{Voice: e.cfg.Voice, Text: intro}}
	} else {
		session.LastAudio = asset.Name
		gather.Verbs = []twiml.Verb{twiml.Play{URL: asset.URL}}
	}

	session.State = domain.SessionStateListening
	log.Info("conversation: intro served")
	return twiml.NewDocument().Append(gather)
}

func (e *Engine) handleUtterance(ctx context.Context, session *Session, utterance string, log *logger.Logger) *twiml.Document {
	if utterance == "" {
		apology := e.cfg.Apology
		if apology == "" {
			apology = defaultApology
		}
		session.State = domain.SessionStateEnded
		log.Info("conversation: no speech captured, ending call")
		return twiml.NewDocument().Append(
			twiml.Say{Voice: e.cfg.Voice, Text: apology},
			twiml.Hangup{},
		)
	}

	session.State = domain.SessionStateResponding
	session.LastUtterance = utterance

	text := e.replies.Reply(ctx, utterance)
	session.LastReply = text
	session.State = domain.SessionStateEnded

	asset, err := e.speech.Synthesize(ctx, text)
	if err != nil {
		log.Warn("conversation: reply synthesis failed, speaking text", zap.Error(err))
		return twiml.NewDocument().Append(
			twiml.Say{Voice: e.cfg.Voice, Text: text},
			twiml.Hangup{},
		)
	}

	session.LastAudio = asset.Name
	log.Info("conversation: reply served", zap.String("asset", asset.Name))
	return twiml.NewDocument().Append(
		twiml.Play{URL: asset.URL},
		twiml.Hangup{},
	)
}

func (e *Engine) gatherTimeoutSeconds() int {
	secs := int(e.cfg.GatherTimeout.Seconds())
	if secs <= 0 {
		secs = 5
	}
	return secs
}
