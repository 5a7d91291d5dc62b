package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sharp-standards/screen-cli/internal/ledger"
	"github.com/sharp-standards/screen-cli/pkg/mailer"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Transcribe TranscribeConfig `yaml:"transcribe" mapstructure:"transcribe"`
	Limits     LimitsConfig     `yaml:"limits" mapstructure:"limits"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Pricing    ledger.Rates     `yaml:"pricing" mapstructure:"pricing"`
	Slack      SlackConfig      `yaml:"slack" mapstructure:"slack"`
	Mail       mailer.Config    `yaml:"mail" mapstructure:"mail"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key             string  `yaml:"key" mapstructure:"key"`
	Model           string  `yaml:"model" mapstructure:"model"`
	Temperature     float64 `yaml:"temperature" mapstructure:"temperature"`
	ScreenMaxTokens int64   `yaml:"screen_max_tokens" mapstructure:"screen_max_tokens"`
	AuditMaxTokens  int64   `yaml:"audit_max_tokens" mapstructure:"audit_max_tokens"`
}

// TranscribeConfig holds audio transcription settings.
type TranscribeConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// LimitsConfig bounds the text fed to evaluation. The bounds are token/cost
// ceilings, not correctness requirements.
type LimitsConfig struct {
	JDMaxChars         int `yaml:"jd_max_chars" mapstructure:"jd_max_chars"`
	CVMaxChars         int `yaml:"cv_max_chars" mapstructure:"cv_max_chars"`
	TranscriptMaxChars int `yaml:"transcript_max_chars" mapstructure:"transcript_max_chars"`
	ExtractMaxChars    int `yaml:"extract_max_chars" mapstructure:"extract_max_chars"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency       int     `yaml:"concurrency" mapstructure:"concurrency"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// SlackConfig holds webhook settings. An empty URL means "not configured".
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SCREEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key is registered here, including the empty ones:
	// viper only surfaces env values through Unmarshal for known keys.
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.temperature", 0.1)
	v.SetDefault("anthropic.screen_max_tokens", 1024)
	v.SetDefault("anthropic.audit_max_tokens", 2048)
	v.SetDefault("transcribe.key", "")
	v.SetDefault("transcribe.base_url", "https://api.openai.com/v1")
	v.SetDefault("transcribe.model", "whisper-1")
	v.SetDefault("limits.jd_max_chars", 5000)
	v.SetDefault("limits.cv_max_chars", 10000)
	v.SetDefault("limits.transcript_max_chars", 15000)
	v.SetDefault("limits.extract_max_chars", 4000)
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.requests_per_second", 2)
	v.SetDefault("pricing.screen_per_call", 0.01)
	v.SetDefault("pricing.audit_per_call", 0.03)
	v.SetDefault("pricing.transcribe_per_call", 0.006)
	v.SetDefault("slack.webhook_url", "")
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
