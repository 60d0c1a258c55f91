package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/acme/voice-dialer/internal/assets"
	"github.com/acme/voice-dialer/internal/config"
	"github.com/acme/voice-dialer/internal/conversation"
	"github.com/acme/voice-dialer/internal/dialing"
	"github.com/acme/voice-dialer/internal/dispatch"
	"github.com/acme/voice-dialer/internal/events"
	redisinfra "github.com/acme/voice-dialer/internal/infra/redis"
	replyopenai "github.com/acme/voice-dialer/internal/reply/openai"
	"github.com/acme/voice-dialer/internal/speech/elevenlabs"
	"github.com/acme/voice-dialer/internal/telephony"
	twilioprovider "github.com/acme/voice-dialer/internal/telephony/twilio"
	"github.com/acme/voice-dialer/pkg/logger"
)

// Container wires together shared infrastructure dependencies.
type Container struct {
	Config *config.Config
	Logger *logger.Logger

	Redis *redisinfra.Client

	components struct {
		once         sync.Once
		normalizer   *dialing.Normalizer
		store        assets.Store
		publisher    events.Publisher
		provider     telephony.Provider
		orchestrator *dispatch.Orchestrator
		engine       *conversation.Engine
	}
}

// Build constructs a container for the given configuration path.
func Build(_ context.Context, configPath string) (*Container, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	lg, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, err
	}

	container := &Container{
		Config: cfg,
		Logger: lg,
	}

	if cfg.Assets.Backend == "redis" {
		client, err := redisinfra.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		container.Redis = client
	}

	return container, nil
}

func (c *Container) initComponents() {
	c.components.once.Do(func() {
		cfg := c.Config
		base := strings.TrimRight(cfg.Telephony.PublicURL, "/")

		c.components.normalizer = dialing.NewNormalizer(cfg.Dialing.Rules)

		if c.Redis != nil {
			c.components.store = assets.NewRedisStore(c.Redis.Inner(), cfg.Assets.TTL)
		} else {
			c.components.store = assets.NewMemoryStore()
		}

		c.components.publisher = events.Publisher(events.NopPublisher{})
		if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.EventTopic != "" {
			publisher, err := events.NewKafkaPublisher(cfg.Kafka)
			if err != nil {
				c.Logger.Warn("kafka events disabled: " + err.Error())
			} else {
				c.components.publisher = publisher
			}
		}

		c.components.provider = twilioprovider.NewProvider(cfg.Telephony)

		synth := elevenlabs.NewClient(cfg.Speech, c.components.store, base+cfg.Assets.PublicPath, c.Logger)
		generator := replyopenai.NewGenerator(cfg.Reply, c.Logger)

		c.components.engine = conversation.NewEngine(
			cfg.Conversation,
			conversation.NewSessionStore(),
			generator,
			synth,
			cfg.Telephony.VoicePath,
			c.Logger,
		)

		c.components.orchestrator = dispatch.New(dispatch.Options{
			Provider:  c.components.provider,
			Publisher: c.components.publisher,
			Logger:    c.Logger,
			VoiceURL:  base + cfg.Telephony.VoicePath,
			StatusURL: base + cfg.Telephony.StatusPath,
			Timeout:   cfg.Telephony.RequestTimeout,
		})
	})
}

// Normalizer exposes the configured number normalizer.
func (c *Container) Normalizer() *dialing.Normalizer {
	c.initComponents()
	return c.components.normalizer
}

// AssetStore exposes the audio asset store.
func (c *Container) AssetStore() assets.Store {
	c.initComponents()
	return c.components.store
}

// Orchestrator exposes the call dispatch orchestrator.
func (c *Container) Orchestrator() *dispatch.Orchestrator {
	c.initComponents()
	return c.components.orchestrator
}

// Engine exposes the conversation engine.
func (c *Container) Engine() *conversation.Engine {
	c.initComponents()
	return c.components.engine
}

// Close releases all held resources.
func (c *Container) Close(_ context.Context) error {
	var errs []error
	if c.components.publisher != nil {
		if err := c.components.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event publisher close: %w", err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if c.Logger != nil {
		c.Logger.Sync()
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
