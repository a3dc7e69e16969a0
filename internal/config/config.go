package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/resource-assistant/internal/pkg/retry"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"

	LLMProviderOpenAI  = "openai"
	LLMProviderGateway = "gateway"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr     string        `env:"SERVER_ADDR" envDefault:":8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"90s"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	DefaultUserID  string        `env:"DEFAULT_USER_ID" envDefault:"1"`

	// Per-user chat budget shared by POST /api/chat/messages and /ws/chat
	ChatRateLimitPerMinute int `env:"CHAT_RATE_LIMIT_PER_MINUTE" envDefault:"10"`

	// Storage configuration
	StorageDriver string       `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	SQLiteCfg     SQLiteConfig `envPrefix:"SQLITE_"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Intake sessions configuration
	SessionCfg SessionConfig `envPrefix:"SESSION_"`

	// Completion service configuration
	LLMProvider   string             `env:"LLM_PROVIDER" envDefault:"openai"`
	PromptVersion string             `env:"PROMPT_VERSION" envDefault:"v2"`
	OpenAICfg     OpenAIConfig       `envPrefix:"OPENAI_"`
	LLMGatewayCfg LLMConnectorConfig `envPrefix:"LLM_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// SQLiteConfig holds the embedded database settings
type SQLiteConfig struct {
	Path         string               `env:"PATH" envDefault:"data/assistant.db"`
	MaxOpenConns int                  `env:"MAX_OPEN_CONNS" envDefault:"4"`
	BusyTimeout  time.Duration        `env:"BUSY_TIMEOUT" envDefault:"5s"`
	Retry        pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// SessionConfig controls intake session eviction
type SessionConfig struct {
	TTL             time.Duration `env:"TTL" envDefault:"1h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
}

// OpenAIConfig holds the OpenAI chat completion settings
type OpenAIConfig struct {
	APIKey  string        `env:"API_KEY"`
	Model   string        `env:"MODEL" envDefault:"gpt-3.5-turbo"`
	BaseURL string        `env:"BASE_URL"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

// LLMConnectorConfig points at an HTTP completion gateway
type LLMConnectorConfig struct {
	HTTPClientConfig
	CompletionEndpoint string `env:"COMPLETION_ENDPOINT" envDefault:"/v1/complete"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"` // seconds
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Missing env file is fine when variables are set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment and validates it
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	switch cfg.StorageDriver {
	case StorageDriverSQLite:
		if cfg.SQLiteCfg.Path == "" {
			errors = append(errors, "SQLITE_PATH must be set when STORAGE_DRIVER=sqlite")
		}
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL must be set when STORAGE_DRIVER=postgres")
		}
		if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
			errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
		}
		if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
			errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
		}
	default:
		errors = append(errors, fmt.Sprintf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverSQLite, StorageDriverPostgres, cfg.StorageDriver))
	}

	if !cfg.EnableMocks {
		switch cfg.LLMProvider {
		case LLMProviderOpenAI:
			if cfg.OpenAICfg.APIKey == "" {
				errors = append(errors, "OPENAI_API_KEY must be set")
			}
		case LLMProviderGateway:
			if cfg.LLMGatewayCfg.Url == "" {
				errors = append(errors, "LLM_SERVICE_URL must be set when LLM_PROVIDER=gateway")
			}
		default:
			errors = append(errors, fmt.Sprintf("LLM_PROVIDER must be %q or %q, got %q", LLMProviderOpenAI, LLMProviderGateway, cfg.LLMProvider))
		}
	}

	if cfg.SessionCfg.TTL <= 0 {
		errors = append(errors, fmt.Sprintf("SESSION_TTL must be positive, got %s", cfg.SessionCfg.TTL))
	}

	if cfg.DefaultUserID == "" {
		errors = append(errors, "DEFAULT_USER_ID must not be empty")
	}

	if cfg.ChatRateLimitPerMinute < 1 || cfg.ChatRateLimitPerMinute > 600 {
		errors = append(errors, fmt.Sprintf("CHAT_RATE_LIMIT_PER_MINUTE must be between 1 and 600, got %d", cfg.ChatRateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
