// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	NATS        NATSConfig
	Trending    TrendingConfig
	News        NewsConfig
	OpenAI      OpenAIConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// TrendingConfig holds trending pipeline configuration
type TrendingConfig struct {
	// RadiusKm is the default query and event-spread radius
	RadiusKm float64

	// Interval is the scheduler period
	Interval time.Duration

	// Window is how far back events count toward scores
	Window time.Duration

	// CacheTTL applied to cached per-cell rankings
	CacheTTL time.Duration

	// FetchLimit caps scores read per cell
	FetchLimit int

	// RefreshedSubject is the bus subject notified after each run
	RefreshedSubject string
}

// NewsConfig holds news query configuration
type NewsConfig struct {
	FetchLimit     int
	ScoreThreshold float64

	// DataFile seeds articles from a local JSON file when set
	DataFile string

	// BatchSize bounds article inserts per ingest batch
	BatchSize int
}

// OpenAIConfig holds OpenAI client configuration
type OpenAIConfig struct {
	APIKey            string
	Model             string
	BaseURL           string
	Temperature       float64
	PromptDir         string
	QueryAnalysisFile string
	SummaryFile       string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "geonews"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Trending: TrendingConfig{
			RadiusKm:         getEnvAsFloat("TRENDING_RADIUS_KM", 10.0),
			Interval:         getEnvAsDuration("TRENDING_INTERVAL", 10*time.Minute),
			Window:           getEnvAsDuration("TRENDING_WINDOW", 24*time.Hour),
			CacheTTL:         getEnvAsDuration("TRENDING_CACHE_TTL", 10*time.Minute),
			FetchLimit:       getEnvAsInt("TRENDING_FETCH_LIMIT", 50),
			RefreshedSubject: getEnv("TRENDING_REFRESHED_SUBJECT", "trending.refreshed"),
		},
		News: NewsConfig{
			FetchLimit:     getEnvAsInt("NEWS_FETCH_LIMIT", 20),
			ScoreThreshold: getEnvAsFloat("NEWS_SCORE_THRESHOLD", 0.5),
			DataFile:       getEnv("NEWS_DATA_FILE", ""),
			BatchSize:      getEnvAsInt("NEWS_BATCH_SIZE", 500),
		},
		OpenAI: OpenAIConfig{
			APIKey:            getEnv("OPENAI_API_KEY", ""),
			Model:             getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:           getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature:       getEnvAsFloat("OPENAI_TEMPERATURE", 0.2),
			PromptDir:         getEnv("OPENAI_PROMPT_DIR", "prompts"),
			QueryAnalysisFile: getEnv("OPENAI_QUERY_ANALYSIS_FILE", "query-analysis.txt"),
			SummaryFile:       getEnv("OPENAI_SUMMARY_FILE", "article-summary.txt"),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Trending.RadiusKm <= 0 {
		return fmt.Errorf("trending radius must be positive")
	}
	if config.Trending.Window <= 0 {
		return fmt.Errorf("trending window must be positive")
	}
	if config.OpenAI.APIKey == "" && config.Environment != "development" {
		return fmt.Errorf("OpenAI API key must be set in non-development environments")
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
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
	return strings.Split(valueStr, ",")
}
