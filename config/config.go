// Package config provides configuration loading with Azure Key Vault integration.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds common configuration for the pricing services.
type Config struct {
	// Service identification
	ServiceName string
	Environment string
	Version     string

	// Logging
	LogLevel string

	// Azure
	KeyVaultName   string
	AppInsightsKey string

	// Redis cache (quotes, zone config, route cache)
	RedisHost     string
	RedisPassword string
	RedisTLS      bool

	// Google Maps (routing, reverse geocoding)
	MapsAPIKey string

	// Zone configuration document in Blob Storage. When the account is
	// empty the baked-in island registry is used instead.
	ZoneConfigAccount   string
	ZoneConfigContainer string
	ZoneConfigBlob      string
	ZoneConfigRefresh   time.Duration

	// OpenTelemetry OTLP endpoint (empty disables export)
	OTLPEndpoint string
}

// Load loads configuration from environment variables.
// For production, secrets are loaded from Azure Key Vault.
func Load(serviceName string) (*Config, error) {
	cfg := &Config{
		ServiceName:         serviceName,
		Environment:         getEnv("ENVIRONMENT", "development"),
		Version:             getEnv("VERSION", "0.0.1"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		KeyVaultName:        getEnv("KEY_VAULT_NAME", ""),
		ZoneConfigAccount:   getEnv("ZONE_CONFIG_ACCOUNT", ""),
		ZoneConfigContainer: getEnv("ZONE_CONFIG_CONTAINER", "pricing"),
		ZoneConfigBlob:      getEnv("ZONE_CONFIG_BLOB", "zones.json"),
		ZoneConfigRefresh:   getEnvDuration("ZONE_CONFIG_REFRESH", time.Hour),
		OTLPEndpoint:        getEnv("OTLP_ENDPOINT", ""),
	}

	// Load secrets from Key Vault in production
	if cfg.KeyVaultName != "" && cfg.Environment != "development" {
		if err := cfg.loadFromKeyVault(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to load secrets from Key Vault: %w", err)
		}
	} else {
		cfg.loadFromEnv()
	}

	return cfg, nil
}

// MustLoad loads configuration and panics on error.
func MustLoad(serviceName string) *Config {
	cfg, err := Load(serviceName)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) loadFromEnv() {
	c.AppInsightsKey = getEnv("APPINSIGHTS_INSTRUMENTATIONKEY", "")
	c.RedisHost = getEnv("REDIS_HOST", "localhost:6379")
	c.RedisPassword = getEnv("REDIS_PASSWORD", "")
	c.RedisTLS = getEnvBool("REDIS_TLS", false)

	// MAPS_API_KEY is required outside development: without it every
	// cross-zone quote would fail for lack of route metrics.
	if c.IsDevelopment() {
		c.MapsAPIKey = getEnv("MAPS_API_KEY", "")
	} else {
		c.MapsAPIKey = requireEnv("MAPS_API_KEY")
	}
}

func (c *Config) loadFromKeyVault(ctx context.Context) error {
	kv, err := NewKeyVaultClient(c.KeyVaultName)
	if err != nil {
		return err
	}

	secrets := map[string]*string{
		"appinsights-key": &c.AppInsightsKey,
		"redis-host":      &c.RedisHost,
		"redis-password":  &c.RedisPassword,
		"maps-api-key":    &c.MapsAPIKey,
	}

	for name, ptr := range secrets {
		value, err := kv.GetSecret(ctx, name)
		if err != nil {
			// Some secrets may be optional
			continue
		}
		*ptr = value
	}

	c.RedisTLS = getEnvBool("REDIS_TLS", true)

	if c.MapsAPIKey == "" {
		return fmt.Errorf("maps-api-key missing from Key Vault %s", c.KeyVaultName)
	}

	return nil
}

// HasZoneConfigBlob reports whether a remote zone configuration is set up.
func (c *Config) HasZoneConfigBlob() bool {
	return c.ZoneConfigAccount != "" && c.ZoneConfigContainer != "" && c.ZoneConfigBlob != ""
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// requireEnv gets a required environment variable and panics if not set.
// Use this for configuration that MUST be provided.
func requireEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnv gets an environment variable with a default value.
func GetEnv(key, defaultValue string) string {
	return getEnv(key, defaultValue)
}

// GetEnvInt gets an environment variable as an integer with a default value.
func GetEnvInt(key string, defaultValue int) int {
	return getEnvInt(key, defaultValue)
}

// GetEnvBool gets an environment variable as a boolean with a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	return getEnvBool(key, defaultValue)
}

// GetEnvDuration gets an environment variable as a duration with a default value.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	return getEnvDuration(key, defaultValue)
}

// GetEnvFloat gets an environment variable as a float with a default value.
func GetEnvFloat(key string, defaultValue float64) float64 {
	return getEnvFloat(key, defaultValue)
}
