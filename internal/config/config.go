// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"vps-order/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Pricing contains pricing engine settings
	Pricing PricingConfig `json:"pricing"`

	// Catalog contains rate card catalog settings
	Catalog CatalogConfig `json:"catalog"`

	// Stripe contains payment provider settings
	Stripe StripeConfig `json:"stripe"`

	// Infra contains infrastructure provider settings
	Infra InfraConfig `json:"infra"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Address to listen on
	Address string `json:"address"`

	// PublicURL is the externally visible origin, used for payment
	// redirect URLs when the request carries no Origin header
	PublicURL string `json:"public_url"`

	// ReadTimeoutSeconds bounds request reads
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`

	// WriteTimeoutSeconds bounds response writes
	WriteTimeoutSeconds int `json:"write_timeout_seconds"`
}

// PricingConfig contains pricing engine settings. Values are decimal
// strings so the engine never sees binary floats.
type PricingConfig struct {
	// Markup is the multiplier applied to the base monthly price
	Markup string `json:"markup"`

	// Margin is the flat amount added after markup
	Margin string `json:"margin"`
}

// CatalogConfig contains rate card catalog settings
type CatalogConfig struct {
	// CacheTTLSeconds is how long a fetched rate card stays cached
	CacheTTLSeconds int `json:"cache_ttl_seconds"`
}

// StripeConfig contains payment provider settings
type StripeConfig struct {
	// SecretKey authenticates against the Stripe API. Usually supplied
	// via STRIPE_SECRET_KEY rather than the config file.
	SecretKey string `json:"secret_key,omitempty"`

	// Currency is the checkout currency
	Currency string `json:"currency"`
}

// InfraConfig contains infrastructure provider settings
type InfraConfig struct {
	// BaseURL is the provider API root
	BaseURL string `json:"base_url"`

	// TokenEnvVars lists the environment variables checked for the
	// provider credential, in precedence order
	TokenEnvVars []string `json:"token_env_vars"`

	// TimeoutSeconds bounds each upstream call
	TimeoutSeconds int `json:"timeout_seconds"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Address:             ":8080",
			PublicURL:           "http://localhost:8080",
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 60,
		},
		Pricing: PricingConfig{
			Markup: "1.5",
			Margin: "1.00",
		},
		Catalog: CatalogConfig{
			CacheTTLSeconds: 600,
		},
		Stripe: StripeConfig{
			Currency: "usd",
		},
		Infra: InfraConfig{
			BaseURL:        "https://api.digitalocean.com/v2",
			TokenEnvVars:   []string{"DO_API_TOKEN", "DIGITALOCEAN_TOKEN"},
			TimeoutSeconds: 10,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default().ApplyEnv(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config.ApplyEnv(), nil
}

// ApplyEnv overlays environment variables on top of the file values.
// Secrets are expected to arrive this way in deployment.
func (c *Config) ApplyEnv() *Config {
	if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
		c.Stripe.SecretKey = v
	}
	if v := os.Getenv("PUBLIC_URL"); v != "" {
		c.Server.PublicURL = v
	}
	if v := os.Getenv("ADDR"); v != "" {
		c.Server.Address = v
	}
	return c
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// The secret never lands on disk
	clone := *c
	clone.Stripe.SecretKey = ""

	data, err := json.MarshalIndent(&clone, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
