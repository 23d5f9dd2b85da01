// Package config provides environment configuration for the webhook server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// Backend settings
	DataStoreID          string
	DiscoveryEndpoint    string
	DiscoveryAPIVersion  string
	DiscoveryTimeout     time.Duration
	DiscoveryAccessToken string
	SearchConfigFile     string
	SearchMaxResults     int
	AnswerRelated        bool

	// Webhook auth
	WebhookJWTSecret string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// NATS settings
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),

		// Backend
		DataStoreID:          getEnv("DATASTORE_ID", getEnv("datastore_id", "")),
		DiscoveryEndpoint:    getEnv("DISCOVERY_ENDPOINT", ""),
		DiscoveryAPIVersion:  getEnv("DISCOVERY_API_VERSION", "v1beta"),
		DiscoveryTimeout:     getDurationEnv("DISCOVERY_TIMEOUT", 30*time.Second),
		DiscoveryAccessToken: getEnv("DISCOVERY_ACCESS_TOKEN", ""),
		SearchConfigFile:     getEnv("SEARCH_CONFIG_FILE", ""),
		SearchMaxResults:     getIntEnv("SEARCH_MAX_RESULTS", 1),
		AnswerRelated:        getBoolEnv("ANSWER_RELATED_QUESTIONS", true),

		// Webhook auth
		WebhookJWTSecret: getEnv("WEBHOOK_JWT_SECRET", ""),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// NATS
		NATSURL:      getEnv("NATS_URL", ""),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

// ErrMissingDataStore is returned when no data store is configured.
var ErrMissingDataStore = errors.New("datastore_id is required")

// Validate checks the settings the webhooks cannot run without.
func (c *Config) Validate() error {
	if c.DataStoreID == "" {
		return ErrMissingDataStore
	}
	if _, err := DataStoreLocation(c.DataStoreID); err != nil {
		return err
	}
	if c.SearchMaxResults <= 0 {
		return fmt.Errorf("SEARCH_MAX_RESULTS must be positive, got %d", c.SearchMaxResults)
	}
	return nil
}

// DataStoreLocation returns the location segment of a data store resource
// name of the form projects/{p}/locations/{l}/collections/{c}/dataStores/{d}.
func DataStoreLocation(dataStoreID string) (string, error) {
	parts := strings.Split(strings.Trim(dataStoreID, "/"), "/")
	if len(parts) != 8 ||
		parts[0] != "projects" || parts[2] != "locations" ||
		parts[4] != "collections" || parts[6] != "dataStores" {
		return "", fmt.Errorf("invalid datastore_id %q: want projects/{p}/locations/{l}/collections/{c}/dataStores/{d}", dataStoreID)
	}
	for _, p := range parts {
		if p == "" {
			return "", fmt.Errorf("invalid datastore_id %q: empty segment", dataStoreID)
		}
	}
	return parts[3], nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
