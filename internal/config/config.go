package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures the full configuration surface for the application.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	HTTP         HTTPConfig         `mapstructure:"http"`
	Telephony    TelephonyConfig    `mapstructure:"telephony"`
	Reply        ReplyConfig        `mapstructure:"reply"`
	Speech       SpeechConfig       `mapstructure:"speech"`
	Assets       AssetsConfig       `mapstructure:"assets"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
	Dialing      DialingConfig      `mapstructure:"dialing"`
	Conversation ConversationConfig `mapstructure:"conversation"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type HTTPConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type TelephonyConfig struct {
	AccountSID     string        `mapstructure:"account_sid"`
	AuthToken      string        `mapstructure:"auth_token"`
	FromNumber     string        `mapstructure:"from_number"`
	PublicURL      string        `mapstructure:"public_url"`
	VoicePath      string        `mapstructure:"voice_path"`
	StatusPath     string        `mapstructure:"status_path"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type ReplyConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	SystemPrompt string        `mapstructure:"system_prompt"`
	Fallback     string        `mapstructure:"fallback"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type SpeechConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	VoiceID      string        `mapstructure:"voice_id"`
	ModelID      string        `mapstructure:"model_id"`
	OutputFormat string        `mapstructure:"output_format"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type AssetsConfig struct {
	Backend    string        `mapstructure:"backend"`
	PublicPath string        `mapstructure:"public_path"`
	TTL        time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Address      string        `mapstructure:"address"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

type KafkaConfig struct {
	Brokers    []string `mapstructure:"brokers"`
	ClientID   string   `mapstructure:"client_id"`
	EventTopic string   `mapstructure:"event_topic"`
}

type TelemetryConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	ServiceName     string        `mapstructure:"service_name"`
	SampleRatio     float64       `mapstructure:"sample_ratio"`
	TracingEnabled  bool          `mapstructure:"tracing_enabled"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DialingRule describes one bare-digit shape that is assumed dialable once
// the international marker is prepended.
type DialingRule struct {
	Length int    `mapstructure:"length"`
	Prefix string `mapstructure:"prefix"`
}

type DialingConfig struct {
	Rules []DialingRule `mapstructure:"rules"`
}

type ConversationConfig struct {
	Intro         string        `mapstructure:"intro"`
	Apology       string        `mapstructure:"apology"`
	GatherTimeout time.Duration `mapstructure:"gather_timeout"`
	Voice         string        `mapstructure:"voice"`
}

// Load reads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvPrefix("DIALER")
	v.SetEnvKeyReplacer(NewEnvReplacer())

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file: %w", err)
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// NewEnvReplacer standardizes environment variable names.
func NewEnvReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_", "-", "_")
}

func applyDefaults(cfg *Config) {
	if cfg.Telephony.VoicePath == "" {
		cfg.Telephony.VoicePath = "/voice"
	}
	if cfg.Telephony.StatusPath == "" {
		cfg.Telephony.StatusPath = "/voice/status"
	}
	if cfg.Telephony.RequestTimeout <= 0 {
		cfg.Telephony.RequestTimeout = 10 * time.Second
	}
	if cfg.Reply.Timeout <= 0 {
		cfg.Reply.Timeout = 15 * time.Second
	}
	if cfg.Speech.Timeout <= 0 {
		cfg.Speech.Timeout = 15 * time.Second
	}
	if cfg.Assets.Backend == "" {
		cfg.Assets.Backend = "memory"
	}
	if cfg.Assets.PublicPath == "" {
		cfg.Assets.PublicPath = "/audio"
	}
	if cfg.Conversation.GatherTimeout <= 0 {
		cfg.Conversation.GatherTimeout = 5 * time.Second
	}
	if len(cfg.Dialing.Rules) == 0 {
		cfg.Dialing.Rules = []DialingRule{
			{Length: 11, Prefix: "1"},
			{Length: 12, Prefix: "91"},
		}
	}
}
