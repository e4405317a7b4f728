package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Issuer          string // Required: issuer claim expected on bearer tokens
	SigningKeyFile  string // Optional: path to the PKCS8 Ed25519 signing key (default: ./ledger.key, generated if absent)
	TrustedJWKSFile string // Optional: path to the JWKS of the upstream auth service (default: ./trusted_jwks.json)

	DatabaseDriver string // Optional: database driver (sqlite, postgres) (default: sqlite)
	DatabaseFile   string // Optional: path to SQLite database file (default: ./ledger.db)
	DatabaseURL    string // Required for postgres: connection DSN

	PublishNewClients bool          // Optional: append registrations to the hash chain (default: false)
	CrossSignInterval time.Duration // Optional: minimum time between cross-sign cycles (default: 1h)
	CrossSignPeers    []string      // Optional: comma-separated peer base URLs
	ReplayWindow      time.Duration // Optional: request freshness window, <=0 disables (default: 5m)
	RedisURL          string        // Optional: redis URL for the nonce cache (default: in-memory)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:          os.Getenv("LEDGER_ISSUER"),
		SigningKeyFile:  getEnvOrDefault("LEDGER_SIGNING_KEY_FILE", "ledger.key"),
		TrustedJWKSFile: getEnvOrDefault("LEDGER_TRUSTED_JWKS_FILE", "trusted_jwks.json"),

		DatabaseDriver: getEnvOrDefault("LEDGER_DATABASE_DRIVER", "sqlite"),
		DatabaseFile:   getEnvOrDefault("LEDGER_DATABASE_FILE", "ledger.db"),
		DatabaseURL:    os.Getenv("LEDGER_DATABASE_URL"),

		PublishNewClients: getEnvBoolOrDefault("LEDGER_PUBLISH_NEW_CLIENTS", false),
		CrossSignInterval: getEnvDurationOrDefault("LEDGER_CROSS_SIGN_INTERVAL", 1*time.Hour),
		ReplayWindow:      getEnvDurationOrDefault("LEDGER_REPLAY_WINDOW", 5*time.Minute),
		RedisURL:          os.Getenv("LEDGER_REDIS_URL"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if peers := os.Getenv("LEDGER_CROSS_SIGN_PEERS"); peers != "" {
		for _, p := range strings.Split(peers, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.CrossSignPeers = append(cfg.CrossSignPeers, p)
			}
		}
	}

	if cfg.Issuer == "" {
		cfg.Issuer = "ledgerd" // Default issuer
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
