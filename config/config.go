package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Env string

const (
	Dev        Env = "development"
	Test       Env = "test"
	Preview    Env = "preview"
	Production Env = "production"
)

type RabbitMQConfig struct {
	URL             string
	Exchange        string
	Queue           string
	RoutingKey      string
	Prefetch        int
	DeclareTopology bool
}

type TursoConfig struct {
	DSN   string
	Path  string
	Token string
}

type InngestConfig struct {
	AppID      string
	ServePath  string
	ServeHost  string
	SigningKey string
	Dev        string
}

type OllamaConfig struct {
	BaseURL string
	Model   string
}

type ClaudeConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type PerplexityConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type ProvidersConfig struct {
	// Default names the provider used when a request doesn't pick one.
	Default    string
	Ollama     OllamaConfig
	Claude     ClaudeConfig
	Perplexity PerplexityConfig
}

type Config struct {
	AppName string
	ENV     Env
	AppPort int

	LogLevel string

	// Postgres (optional; enabled only when DBHost + DBName are set).
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     int
	DBName     string

	// Redis (optional; enabled only when RedisHost is set).
	RedisUser     string
	RedisPassword string
	RedisHost     string
	RedisPort     int
	RedisScheme   string

	// Cache TTL for generated blueprints, in minutes.
	CacheTTLMinutes int

	RabbitMQ  RabbitMQConfig
	Turso     TursoConfig
	Inngest   InngestConfig
	Providers ProvidersConfig
}

func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "blueprintforge")
	v.SetDefault("APP_ENV", string(Dev))
	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_SCHEME", "redis")
	v.SetDefault("CACHE_TTL_MINUTES", 1440)

	v.SetDefault("RABBITMQ_EXCHANGE", "events")
	v.SetDefault("RABBITMQ_QUEUE", "blueprint.generate")
	v.SetDefault("RABBITMQ_ROUTING_KEY", "blueprint.generate.requested.v1")
	v.SetDefault("RABBITMQ_PREFETCH", 1)
	v.SetDefault("RABBITMQ_DECLARE_TOPOLOGY", true)

	v.SetDefault("INNGEST_SERVE_PATH", "/api/inngest")

	v.SetDefault("PROVIDER_DEFAULT", "ollama")
	v.SetDefault("OLLAMA_BASE_URL", "http://localhost:11434")
	v.SetDefault("OLLAMA_MODEL", "llama3.1")
	v.SetDefault("CLAUDE_BASE_URL", "https://api.anthropic.com")
	v.SetDefault("CLAUDE_MODEL", "claude-sonnet-4-20250514")
	v.SetDefault("PERPLEXITY_BASE_URL", "https://api.perplexity.ai")
	v.SetDefault("PERPLEXITY_MODEL", "sonar")

	return v
}

func NewConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppName: v.GetString("APP_NAME"),
		ENV:     Env(strings.ToLower(v.GetString("APP_ENV"))),
		AppPort: v.GetInt("APP_PORT"),

		LogLevel: v.GetString("LOG_LEVEL"),

		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetInt("DB_PORT"),
		DBName:     v.GetString("DB_NAME"),

		RedisUser:     v.GetString("REDIS_USER"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetInt("REDIS_PORT"),
		RedisScheme:   v.GetString("REDIS_SCHEME"),

		CacheTTLMinutes: v.GetInt("CACHE_TTL_MINUTES"),

		RabbitMQ: RabbitMQConfig{
			URL:             v.GetString("RABBITMQ_URL"),
			Exchange:        v.GetString("RABBITMQ_EXCHANGE"),
			Queue:           v.GetString("RABBITMQ_QUEUE"),
			RoutingKey:      v.GetString("RABBITMQ_ROUTING_KEY"),
			Prefetch:        v.GetInt("RABBITMQ_PREFETCH"),
			DeclareTopology: v.GetBool("RABBITMQ_DECLARE_TOPOLOGY"),
		},

		Turso: TursoConfig{
			DSN:   v.GetString("TURSO_SQLITE_DSN"),
			Path:  v.GetString("TURSO_DATABASE_URL"),
			Token: v.GetString("TURSO_AUTH_TOKEN"),
		},

		Inngest: InngestConfig{
			AppID:      v.GetString("INNGEST_APP_ID"),
			ServePath:  v.GetString("INNGEST_SERVE_PATH"),
			ServeHost:  v.GetString("INNGEST_SERVE_HOST"),
			SigningKey: v.GetString("INNGEST_SIGNING_KEY"),
			Dev:        v.GetString("INNGEST_DEV"),
		},

		Providers: ProvidersConfig{
			Default: v.GetString("PROVIDER_DEFAULT"),
			Ollama: OllamaConfig{
				BaseURL: v.GetString("OLLAMA_BASE_URL"),
				Model:   v.GetString("OLLAMA_MODEL"),
			},
			Claude: ClaudeConfig{
				BaseURL: v.GetString("CLAUDE_BASE_URL"),
				APIKey:  v.GetString("CLAUDE_API_KEY"),
				Model:   v.GetString("CLAUDE_MODEL"),
			},
			Perplexity: PerplexityConfig{
				BaseURL: v.GetString("PERPLEXITY_BASE_URL"),
				APIKey:  v.GetString("PERPLEXITY_API_KEY"),
				Model:   v.GetString("PERPLEXITY_MODEL"),
			},
		},
	}

	if cfg.AppPort <= 0 || cfg.AppPort > 65535 {
		return nil, fmt.Errorf("invalid APP_PORT %d", cfg.AppPort)
	}
	if cfg.DBPort <= 0 || cfg.DBPort > 65535 {
		return nil, fmt.Errorf("invalid DB_PORT %d", cfg.DBPort)
	}
	if cfg.RedisPort <= 0 || cfg.RedisPort > 65535 {
		return nil, fmt.Errorf("invalid REDIS_PORT %d", cfg.RedisPort)
	}

	return cfg, nil
}
