package config

import (
	"os"
	"strconv"
	"time"

	"hopskip/internal/database"
	"hopskip/internal/external"
	"hopskip/internal/messaging"
	"hopskip/internal/policy"
)

// Config holds the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	Database      database.Config
	NATS          messaging.Config
	Elasticsearch ElasticsearchConfig
	Valkey        ValkeyConfig
	Payment       external.PaymentConfig
	Wallet        external.WalletConfig
	Policy        policy.Config
	Currency      string
}

// ValkeyConfig holds the auth cache connection settings
type ValkeyConfig struct {
	Addr         string
	Password     string
	UsersHashKey string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8082"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "hopskip"),
			Password:           getEnv("DB_PASSWORD", "hopskip123"),
			DBName:             getEnv("DB_NAME", "hopskip"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "hopskip"),
			ClientID:  getEnv("NATS_CLIENT_ID", "hopskip-api"),
		},

		Elasticsearch: ElasticsearchConfig{
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:      getEnv("ELASTICSEARCH_INDEX", "activities"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},

		Valkey: ValkeyConfig{
			Addr:         getEnv("VALKEY_ADDR", "localhost:6379"),
			Password:     getEnv("VALKEY_PASSWORD", ""),
			UsersHashKey: getEnv("VALKEY_USERS_HASH_KEY", "users:auth"),
		},

		Payment: external.PaymentConfig{
			BaseURL:  getEnv("PAYMENT_GATEWAY_URL", "https://pay.example.com/gateway"),
			TeamSlug: getEnv("PAYMENT_TEAM_SLUG", ""),
			Password: getEnv("PAYMENT_PASSWORD", ""),
			Timeout:  time.Duration(getEnvInt("PAYMENT_TIMEOUT_SEC", 30)) * time.Second,
		},

		Wallet: external.WalletConfig{
			BaseURL: getEnv("WALLET_SERVICE_URL", "http://localhost:8090"),
			Timeout: time.Duration(getEnvInt("WALLET_TIMEOUT_SEC", 30)) * time.Second,
		},

		// Cancellation policy constants. Service-global; per-venue overrides
		// are not supported yet.
		Policy: policy.Config{
			CutoffWindow: time.Duration(getEnvInt("CANCEL_CUTOFF_HOURS", 24)) * time.Hour,
			AdminFee:     int64(getEnvInt("CANCEL_ADMIN_FEE_MINOR", 200)),
		},
		Currency: getEnv("CURRENCY", "GBP"),
	}
}

// getEnv reads an environment variable or returns the default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
