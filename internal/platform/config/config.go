package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	strutil "vcardimport/pkg/platform/strings"
)

// Config is the full process configuration.
type Config struct {
	Server   Server
	Log      LogConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Import   ImportConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr string
	// JWTSigningKey enables bearer auth on the import API when set.
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	// APIKeyHash is a bcrypt hash accepted via X-API-Key when set.
	APIKeyHash      string
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// PostgresConfig selects the Postgres stores when URL is set.
type PostgresConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig selects the Redis vocabulary store when URL is set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig routes audit events to a topic when Brokers is non-empty.
type KafkaConfig struct {
	Brokers     []string
	AuditTopic  string
	AuditBuffer int
}

type ImportConfig struct {
	Concurrency    int
	VocabCacheSize int
	TxTimeout      time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var errs []error
	intVar := func(key string, def int) int {
		v, err := envInt(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	durVar := func(key string, def time.Duration) time.Duration {
		v, err := envDuration(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg := Config{
		Server: Server{
			Addr:            envString("VCARD_ADDR", ":8080"),
			JWTSigningKey:   os.Getenv("JWT_SIGNING_KEY"),
			JWTIssuer:       envString("JWT_ISSUER", "vcardimport"),
			JWTAudience:     envString("JWT_AUDIENCE", "vcardimport-api"),
			APIKeyHash:      os.Getenv("API_KEY_HASH"),
			ShutdownTimeout: durVar("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:  envString("LOG_LEVEL", "info"),
			Format: envString("LOG_FORMAT", "json"),
		},
		Postgres: PostgresConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: intVar("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: intVar("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intVar("REDIS_POOL_SIZE", 10),
			MinIdleConns: intVar("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durVar("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durVar("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durVar("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:     strutil.SplitNonEmpty(os.Getenv("KAFKA_BROKERS"), ","),
			AuditTopic:  envString("KAFKA_AUDIT_TOPIC", "contact-audit"),
			AuditBuffer: intVar("AUDIT_BUFFER", 256),
		},
		Import: ImportConfig{
			Concurrency:    intVar("IMPORT_CONCURRENCY", 4),
			VocabCacheSize: intVar("VOCAB_CACHE_SIZE", 4096),
			TxTimeout:      durVar("IMPORT_TX_TIMEOUT", 5*time.Second),
		},
	}
	if len(errs) > 0 {
		return Config{}, errs[0]
	}
	if cfg.Import.Concurrency < 1 {
		return Config{}, fmt.Errorf("IMPORT_CONCURRENCY must be positive, got %d", cfg.Import.Concurrency)
	}
	// Each import holds one connection for its transaction and needs another
	// for vocabulary writes.
	if conns := cfg.Postgres.MaxOpenConns; conns > 0 && conns <= cfg.Import.Concurrency {
		return Config{}, fmt.Errorf("DATABASE_MAX_OPEN_CONNS must exceed IMPORT_CONCURRENCY (%d), got %d", cfg.Import.Concurrency, conns)
	}
	return cfg, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
