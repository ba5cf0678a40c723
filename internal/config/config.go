// internal/config/config.go

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverMongo     = "mongo"
	DriverFirestore = "firestore"
	DriverPostgres  = "postgres"
	DriverMemory    = "memory"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Store       StoreConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	NATS        NATSConfig
	Live        LiveConfig
	Log         LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// StoreConfig selects and configures the listing store
type StoreConfig struct {
	Driver     string
	Collection string
	Mongo      MongoConfig
	Firestore  FirestoreConfig
	Database   DatabaseConfig
	SeedFile   string
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI            string
	Database       string
	MaxPoolSize    uint64
	ConnectTimeout time.Duration
}

// FirestoreConfig holds Firestore REST configuration
type FirestoreConfig struct {
	BaseURL   string
	ProjectID string
	Database  string
	APIKey    string
	PageSize  int
	Timeout   time.Duration
}

// DatabaseConfig holds Postgres configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig holds API rate limit configuration
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Prefix   string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	SubjectPrefix  string
	QueueGroup     string
}

// LiveConfig holds live search configuration
type LiveConfig struct {
	FilterDebounce time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string
	Format      string
	ServiceName string
}

// Load loads configuration from environment variables, reading an optional
// .env file first
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("error loading .env file: %w", err)
	}

	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Store: StoreConfig{
			Driver:     getEnv("STORE_DRIVER", DriverMongo),
			Collection: getEnv("STORE_COLLECTION", "rooms"),
			SeedFile:   getEnv("STORE_SEED_FILE", ""),
			Mongo: MongoConfig{
				URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
				Database:       getEnv("MONGODB_DATABASE", "roomfinder"),
				MaxPoolSize:    uint64(getEnvAsInt("MONGODB_MAX_POOL_SIZE", 20)),
				ConnectTimeout: getEnvAsDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
			},
			Firestore: FirestoreConfig{
				BaseURL:   getEnv("FIRESTORE_BASE_URL", "https://firestore.googleapis.com"),
				ProjectID: getEnv("FIRESTORE_PROJECT_ID", ""),
				Database:  getEnv("FIRESTORE_DATABASE", "(default)"),
				APIKey:    getEnv("FIRESTORE_API_KEY", ""),
				PageSize:  getEnvAsInt("FIRESTORE_PAGE_SIZE", 300),
				Timeout:   getEnvAsDuration("FIRESTORE_TIMEOUT", 10*time.Second),
			},
			Database: DatabaseConfig{
				Host:         getEnv("DB_HOST", "localhost"),
				Port:         getEnvAsInt("DB_PORT", 5432),
				User:         getEnv("DB_USER", "postgres"),
				Password:     getEnv("DB_PASSWORD", "postgres"),
				Database:     getEnv("DB_NAME", "roomfinder"),
				MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
				MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
				MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
				SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			},
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 120),
			Window:   getEnvAsDuration("RATE_LIMIT_WINDOW", 1*time.Minute),
			Prefix:   getEnv("RATE_LIMIT_PREFIX", "roomfinder:ratelimit:"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			SubjectPrefix:  getEnv("NATS_SUBJECT_PREFIX", "rooms"),
			QueueGroup:     getEnv("NATS_QUEUE_GROUP", "roomfinder"),
		},
		Live: LiveConfig{
			FilterDebounce: getEnvAsDuration("LIVE_FILTER_DEBOUNCE", 1000*time.Millisecond),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "json"),
			ServiceName: getEnv("LOG_SERVICE_NAME", "roomfinder"),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	switch config.Store.Driver {
	case DriverMongo:
		if config.Store.Mongo.URI == "" {
			return fmt.Errorf("MONGODB_URI must be set for the mongo store")
		}
	case DriverFirestore:
		if config.Store.Firestore.ProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID must be set for the firestore store")
		}
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}

	if config.Redis.Addr != "" && (config.RateLimit.Requests <= 0 || config.RateLimit.Window < time.Second) {
		return fmt.Errorf("rate limit needs a positive request count and a window of at least 1s")
	}

	if config.Live.FilterDebounce < 0 {
		return fmt.Errorf("LIVE_FILTER_DEBOUNCE must not be negative")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
