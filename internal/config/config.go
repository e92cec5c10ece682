package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "dev-secret"

// Events backends.
const (
	EventsBackendNone  = "none"
	EventsBackendRedis = "redis"
	EventsBackendAMQP  = "amqp"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
	Events   EventsConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"APP_NAME" envDefault:"campus-grievance-service"`
	Env                   string `env:"APP_ENV" envDefault:"development"`
	Host                  string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"APP_PORT" envDefault:"8080"`
	Version               string `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
}

// PostgresConfig holds DB connection values. An empty DSN selects the
// in-memory stores.
type PostgresConfig struct {
	DSN            string `env:"POSTGRES_DSN"`
	MaxConns       int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	MigrationsDir  string `env:"POSTGRES_MIGRATIONS_DIR" envDefault:"migrations"`
	ConnMaxIdleSec int32  `env:"POSTGRES_CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"POSTGRES_CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// AMQPConfig holds the broker URL.
type AMQPConfig struct {
	URL string `env:"AMQP_URL"`
}

// EventsConfig selects where domain events are forwarded.
type EventsConfig struct {
	Backend      string `env:"EVENTS_BACKEND" envDefault:"none"`
	RedisChannel string `env:"EVENTS_REDIS_CHANNEL" envDefault:"grievance.events"`
	AMQPExchange string `env:"EVENTS_AMQP_EXCHANGE" envDefault:"grievance.events"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	Env   string `env:"APP_ENV" envDefault:"development"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret  string `env:"AUTH_JWT_SECRET" envDefault:"dev-secret"`
	BcryptCost int    `env:"AUTH_BCRYPT_COST" envDefault:"12"`
}

// SMTPConfig configures reporter notifications. Mail is only logged when Host
// is empty.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" envDefault:"noreply@campus.example"`
}

// Load reads configuration from the environment, honoring a local .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			return nil, fmt.Errorf("parse env: %w", aggErr.Errors[0])
		}
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Events.Backend {
	case EventsBackendNone, EventsBackendRedis, EventsBackendAMQP:
	default:
		return fmt.Errorf("invalid EVENTS_BACKEND %q", c.Events.Backend)
	}
	if c.Events.Backend == EventsBackendRedis && c.Redis.Addr == "" {
		return errors.New("EVENTS_BACKEND=redis requires REDIS_ADDR")
	}
	if c.Events.Backend == EventsBackendAMQP && c.AMQP.URL == "" {
		return errors.New("EVENTS_BACKEND=amqp requires AMQP_URL")
	}
	if c.App.IsProduction() && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DefaultJWTSecret) {
		return errors.New("AUTH_JWT_SECRET must be set in production")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsProduction reports whether the service runs in production mode.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}
