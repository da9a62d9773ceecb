package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresDSN    string        // Postgres connection string
	DBMaxConns     int32         // upper bound of the connection pool
	DBQueryTimeout time.Duration // per-request deadline for store calls
	HTTPAddr       string        // listen address of the HTTP server
	BodyLimit      int64         // maximum accepted request body, bytes
	CacheTTL       time.Duration // lifetime of cached aggregate responses
	CacheLimit     int           // maximum number of cached entries
	KafkaBroker    string        // empty disables order events
	KafkaTopic     string        // topic carrying order.created events
	Associations   bool          // run the association builder consumer
	LogLevel       string
	LogPretty      bool
}

// Load reads .env (when present) and the process environment, falling back
// to the defaults of a local development setup.
func Load() (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	dsn := getenv("POSTGRES_DSN")
	if dsn == "" {
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(env("DB_USER", "postgres"), env("DB_PASS", "1234")),
			Host:     env("DB_HOST", "localhost") + ":" + env("DB_PORT", "5432"),
			Path:     env("DB_NAME", "store_db"),
			RawQuery: "sslmode=disable",
		}
		dsn = u.String()
	}

	maxConns, err := strconv.ParseInt(env("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil || maxConns < 1 {
		return nil, fmt.Errorf("config: DB_MAX_CONNS must be a positive integer")
	}
	queryTimeout, err := time.ParseDuration(env("DB_QUERY_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("config: DB_QUERY_TIMEOUT: %w", err)
	}
	bodyLimit, err := strconv.ParseInt(env("BODY_LIMIT_BYTES", "52428800"), 10, 64)
	if err != nil || bodyLimit < 1 {
		return nil, fmt.Errorf("config: BODY_LIMIT_BYTES must be a positive integer")
	}
	cacheTTL, err := time.ParseDuration(env("CACHE_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("config: CACHE_TTL: %w", err)
	}
	cacheLimit, err := strconv.Atoi(env("CACHE_LIMIT", "1000"))
	if err != nil || cacheLimit < 1 {
		return nil, fmt.Errorf("config: CACHE_LIMIT must be a positive integer")
	}
	associations, err := strconv.ParseBool(env("ASSOCIATIONS_CONSUMER", "false"))
	if err != nil {
		return nil, fmt.Errorf("config: ASSOCIATIONS_CONSUMER: %w", err)
	}
	pretty, err := strconv.ParseBool(env("LOG_PRETTY", "false"))
	if err != nil {
		return nil, fmt.Errorf("config: LOG_PRETTY: %w", err)
	}

	return &Config{
		PostgresDSN:    dsn,
		DBMaxConns:     int32(maxConns),
		DBQueryTimeout: queryTimeout,
		HTTPAddr:       ":" + env("PORT", "6000"),
		BodyLimit:      bodyLimit,
		CacheTTL:       cacheTTL,
		CacheLimit:     cacheLimit,
		KafkaBroker:    getenv("KAFKA_BROKER"),
		KafkaTopic:     env("KAFKA_TOPIC", "orders"),
		Associations:   associations,
		LogLevel:       env("LOG_LEVEL", "info"),
		LogPretty:      pretty,
	}, nil
}
