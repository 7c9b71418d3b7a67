package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	CartStorePostgres = "postgres"
	CartStoreRedis    = "redis"
	CartStoreMemory   = "memory"

	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort   int
	GRPCPort   int
	APIPrefix  string
	CORSOrigin string

	Session  SessionConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Otel     OtelConfig

	CartStore string
	SeedFile  string
}

type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

type PostgresConfig struct {
	Host    string
	Port    int
	User    string
	Pass    string
	DB      string
	SSLMode string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CartTTL  time.Duration
}

type KafkaConfig struct {
	Brokers   []string
	CartTopic string
}

type OtelConfig struct {
	Exporter string
	Endpoint string
}

func Load() (Config, error) {
	env := getEnv("APP_ENV", "dev")
	cfg := Config{
		AppEnv:     env,
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		HTTPPort:   getEnvInt("HTTP_PORT", 3001),
		GRPCPort:   getEnvInt("GRPC_PORT", 3002),
		APIPrefix:  strings.Trim(getEnv("API_PREFIX", "api/v1"), "/"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE", "cart_session"),
			MaxAge:     getEnvDuration("SESSION_MAX_AGE", 7*24*time.Hour),
			Secure:     getEnvBool("SESSION_SECURE", env == "prod" || env == "production"),
		},
		Postgres: PostgresConfig{
			Host:    getEnv("POSTGRES_HOST", "localhost"),
			Port:    getEnvInt("POSTGRES_PORT", 5432),
			User:    getEnv("POSTGRES_USER", "shopping"),
			Pass:    getEnv("POSTGRES_PASSWORD", "shoppingpassword"),
			DB:      getEnv("POSTGRES_DB", "shopping_cart"),
			SSLMode: getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			CartTTL:  getEnvDuration("CART_TTL", 7*24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers:   getEnvList("KAFKA_BROKERS"),
			CartTopic: getEnv("KAFKA_CART_TOPIC", "cart-events"),
		},
		Otel: OtelConfig{
			Exporter: strings.ToLower(getEnv("OTEL_EXPORTER", ExporterNone)),
			Endpoint: getEnv("OTEL_ENDPOINT", ""),
		},
		CartStore: strings.ToLower(getEnv("CART_STORE", CartStorePostgres)),
		SeedFile:  getEnv("SEED_FILE", ""),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if !validPort(c.HTTPPort) {
		errs = append(errs, fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort))
	}
	if !validPort(c.GRPCPort) {
		errs = append(errs, fmt.Errorf("GRPC_PORT out of range: %d", c.GRPCPort))
	}
	switch c.CartStore {
	case CartStorePostgres, CartStoreRedis, CartStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("CART_STORE must be one of postgres, redis, memory: %q", c.CartStore))
	}
	switch c.Otel.Exporter {
	case ExporterNone, ExporterStdout:
	case ExporterOTLP:
		if c.Otel.Endpoint == "" {
			errs = append(errs, errors.New("OTEL_ENDPOINT is required when OTEL_EXPORTER=otlp"))
		}
	default:
		errs = append(errs, fmt.Errorf("OTEL_EXPORTER must be one of none, stdout, otlp: %q", c.Otel.Exporter))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("SESSION_COOKIE must not be empty"))
	}
	if c.Session.MaxAge <= 0 {
		errs = append(errs, errors.New("SESSION_MAX_AGE must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}

func validPort(p int) bool { return p > 0 && p < 65536 }

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getEnvList(key string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
