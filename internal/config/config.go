package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	Env      string
	Server   ServerConfig
	Search   SearchConfig
	Store    StoreConfig
	Database DatabaseConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type SearchConfig struct {
	APIKey             string
	BaseURL            string
	Timeout            time.Duration
	MaxResults         int
	RateLimitPerMinute int
	RateLimitBurst     int
}

type StoreConfig struct {
	Driver string
	Path   string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// Load загружает конфигурацию приложения из окружения и .env.
func Load() (Config, error) {
	cfg := Config{}

	if err := loadEnv(); err != nil {
		return cfg, err
	}

	cfg.Env = getEnv("APP_ENV", "local")

	serverPort, err := parseIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return cfg, err
	}

	readTimeout, err := parseDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return cfg, err
	}

	// Планирование делает до трех последовательных запросов поиска.
	writeTimeout, err := parseDurationEnv("SERVER_WRITE_TIMEOUT", 90*time.Second)
	if err != nil {
		return cfg, err
	}

	idleTimeout, err := parseDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return cfg, err
	}

	cfg.Server = ServerConfig{
		Host:         getEnv("SERVER_HOST", "0.0.0.0"),
		Port:         serverPort,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	searchTimeout, err := parseDurationEnv("SEARCH_TIMEOUT", 20*time.Second)
	if err != nil {
		return cfg, err
	}

	searchMaxResults, err := parseIntEnv("SEARCH_MAX_RESULTS", 10)
	if err != nil {
		return cfg, err
	}

	searchRateLimitPerMinute, err := parseIntEnv("SEARCH_RATE_LIMIT_PER_MINUTE", 30)
	if err != nil {
		return cfg, err
	}

	searchRateLimitBurst, err := parseIntEnv("SEARCH_RATE_LIMIT_BURST", 5)
	if err != nil {
		return cfg, err
	}

	searchAPIKey := getEnv("SEARCH_API_KEY", "")
	if searchAPIKey == "" {
		searchAPIKey = getEnv("TAVILY_API_KEY", "")
	}

	cfg.Search = SearchConfig{
		APIKey:             searchAPIKey,
		BaseURL:            getEnv("SEARCH_BASE_URL", "https://api.tavily.com"),
		Timeout:            searchTimeout,
		MaxResults:         searchMaxResults,
		RateLimitPerMinute: searchRateLimitPerMinute,
		RateLimitBurst:     searchRateLimitBurst,
	}

	cfg.Store = StoreConfig{
		Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverFile)),
		Path:   getEnv("STORE_PATH", "saved_travel_plans.jsonl"),
	}

	dbPort, err := parseIntEnv("DB_PORT", 5432)
	if err != nil {
		return cfg, err
	}

	maxOpenConns, err := parseIntEnv("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return cfg, err
	}

	maxIdleConns, err := parseIntEnv("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return cfg, err
	}

	connMaxIdleTime, err := parseDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute)
	if err != nil {
		return cfg, err
	}

	connMaxLifetime, err := parseDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	if err != nil {
		return cfg, err
	}

	cfg.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            dbPort,
		User:            getEnv("DB_USER", "travel"),
		Password:        getEnv("DB_PASSWORD", "travel"),
		Name:            getEnv("DB_NAME", "travel_planner"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxIdleTime: connMaxIdleTime,
		ConnMaxLifetime: connMaxLifetime,
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// DSN возвращает строку подключения к базе данных.
func (c DatabaseConfig) DSN() string {
	user := url.UserPassword(c.User, c.Password)
	dsn := url.URL{
		Scheme: "postgres",
		User:   user,
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}

	query := url.Values{}
	query.Set("sslmode", c.SSLMode)
	return dsn.String() + "?" + query.Encode()
}

func (c Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("SERVER_PORT must be greater than 0")
	}

	if strings.TrimSpace(c.Search.APIKey) == "" {
		return fmt.Errorf("SEARCH_API_KEY is required")
	}

	if c.Search.BaseURL == "" {
		return fmt.Errorf("SEARCH_BASE_URL is required")
	}

	switch c.Store.Driver {
	case StoreDriverFile:
		if strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("STORE_PATH is required")
		}
	case StoreDriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}

		if c.Database.User == "" {
			return fmt.Errorf("DB_USER is required")
		}

		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}

		if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
			return fmt.Errorf("DB_MAX_IDLE_CONNS cannot exceed DB_MAX_OPEN_CONNS")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q", StoreDriverFile, StoreDriverPostgres)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}
