package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is read from the environment. A .env file in the working directory
// is loaded first when present; real env vars win over it.
type Config struct {
	Port        string `env:"PORT" env-default:"8000"`
	Env         string `env:"ENVIRONMENT" env-default:"local"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`
	CORSOrigins string `env:"CORS_ORIGINS" env-default:"*"`

	// Empty means the in-memory store.
	DatabaseURL string `env:"DATABASE_URL"`

	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" env-default:"10485760"`

	LLM       LLMConfig
	RabbitMQ  RabbitMQConfig
	Mail      MailConfig
	Kommo     KommoConfig
	RateLimit RateLimitConfig
}

type LLMConfig struct {
	Provider string        `env:"LLM_PROVIDER" env-default:"openai"`
	APIKey   string        `env:"LLM_API_KEY"`
	BaseURL  string        `env:"LLM_BASE_URL"`
	Model    string        `env:"LLM_MODEL"`
	Timeout  time.Duration `env:"LLM_TIMEOUT" env-default:"20s"`
}

type RabbitMQConfig struct {
	URL string `env:"RABBITMQ_URL"`
}

type MailConfig struct {
	Host    string `env:"MAIL_HOST"`
	Port    int    `env:"MAIL_PORT" env-default:"587"`
	User    string `env:"MAIL_USER"`
	Pass    string `env:"MAIL_PASS"`
	From    string `env:"MAIL_FROM" env-default:"no-reply@leadengine.local"`
	AlertTo string `env:"ALERT_EMAIL_TO"`
}

// KommoConfig enables the CRM sync of hot leads when both values are set.
type KommoConfig struct {
	BaseURL  string `env:"KOMMO_BASE_URL"`
	APIToken string `env:"KOMMO_API_TOKEN"`
}

type RateLimitConfig struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS" env-default:"10"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"1m"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.LLM.Provider) {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("LLM_PROVIDER must be openai or anthropic, got %q", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit requests and window must be positive")
	}
	return nil
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func (c *Config) MailConfigured() bool {
	return c.Mail.Host != "" && c.Mail.AlertTo != ""
}

func (c *Config) KommoConfigured() bool {
	return c.Kommo.BaseURL != "" && c.Kommo.APIToken != ""
}
