package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/luckystake/pool-engine/database"
)

// Config holds all application configuration.
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Redis configuration, backing the VRF sequence counter.
	RedisURL string

	// NATS configuration
	NATSServers string

	// HTTP configuration
	ListenAddr  string
	MetricsAddr string

	// Pool defaults, used by the initialize entry point when a caller
	// doesn't supply its own.
	PoolAdminAddress string
	PoolTokenAddress string
	PoolPeriodDays   uint32

	// External collaborator base URLs.
	TokenGatewayURL string
	LenderPoolURL   string

	// Environment
	Environment string // "development", "production", or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // protects instance for test setup
)

// Get returns the global configuration instance.
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL
// and database name.
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables.
func load() (*Config, error) {
	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		RedisURL: getEnvWithDefault("REDIS_URL", "redis://localhost:6379"),

		NATSServers: getEnvWithDefault("NATS_URL", "nats://nats:4222"),

		ListenAddr:  getEnvWithDefault("LISTEN_ADDR", ":8080"),
		MetricsAddr: getEnvWithDefault("METRICS_ADDR", ":9090"),

		PoolAdminAddress: os.Getenv("POOL_ADMIN_ADDRESS"),
		PoolTokenAddress: os.Getenv("POOL_TOKEN_ADDRESS"),
		PoolPeriodDays:   7,

		TokenGatewayURL: getEnvWithDefault("TOKEN_GATEWAY_URL", "http://token-gateway:8081"),
		LenderPoolURL:   getEnvWithDefault("LENDER_POOL_URL", "http://lender-pool:8082"),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if periodDays := os.Getenv("POOL_PERIOD_DAYS"); periodDays != "" {
		if parsed, err := strconv.ParseUint(periodDays, 10, 32); err == nil {
			config.PoolPeriodDays = uint32(parsed)
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if
// not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests.

// SetTestConfig overrides the global config instance for testing.
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing.
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests.
func NewTestConfig() *Config {
	return &Config{
		Environment:      "test",
		PoolAdminAddress: "GADMIN00000000000000000000000000000000000000000000000",
		PoolTokenAddress: "GTOKEN00000000000000000000000000000000000000000000000",
		PoolPeriodDays:   7,
		ListenAddr:       ":8080",
		MetricsAddr:      ":9090",
		TokenGatewayURL:  "http://token-gateway:8081",
		LenderPoolURL:    "http://lender-pool:8082",
	}
}
