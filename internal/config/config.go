// Package config handles loading and validation of caller configuration.
// Supports a JSON file (CONFIG_FILE) for local development and plain env
// vars otherwise. The negotiation engine itself takes no configuration;
// what is configured here is the default availability each caller offers,
// per negotiation kind.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"conneg/internal/negotiation"
	"conneg/internal/variants"
)

// Config holds all caller configuration.
type Config struct {
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// Offers maps a negotiation kind to its default availability
	// declaration (RFC 8941 list form, see internal/variants). Used when a
	// request does not supply its own availability.
	Offers map[string]string
}

// Default availability per kind: what a caller offers when nothing is
// configured. Weights are ordinary server preferences, not protocol
// constants.
var defaultOffers = map[string]string{
	negotiation.KindCharset:   "utf-8, iso-8859-1;w=0.9, us-ascii;w=0.1",
	negotiation.KindEncoding:  "gzip, identity;w=0.5",
	negotiation.KindLanguage:  "en, en-GB;w=0.8",
	negotiation.KindMediaType: "application/json, text/html;w=0.9",
}

// Load reads configuration from CONFIG_FILE if set, else from env vars.
// Every configured availability declaration is resolved and validated here
// so bad server configuration fails at startup, not on the first request.
func Load() (*Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return loadFromFile(path)
	}

	cfg := &Config{
		Environment: envOrDefault("ENVIRONMENT", "development"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		Offers: map[string]string{
			negotiation.KindCharset:   envOrDefault("CHARSET_OFFERS", defaultOffers[negotiation.KindCharset]),
			negotiation.KindEncoding:  envOrDefault("ENCODING_OFFERS", defaultOffers[negotiation.KindEncoding]),
			negotiation.KindLanguage:  envOrDefault("LANGUAGE_OFFERS", defaultOffers[negotiation.KindLanguage]),
			negotiation.KindMediaType: envOrDefault("MEDIATYPE_OFFERS", defaultOffers[negotiation.KindMediaType]),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file.
// Kinds absent from the file keep their built-in defaults.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig struct {
		Environment string            `json:"environment"`
		LogLevel    string            `json:"log_level"`
		Offers      map[string]string `json:"offers"`
	}
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := &Config{
		Environment: withDefault(fileConfig.Environment, "development"),
		LogLevel:    withDefault(fileConfig.LogLevel, "info"),
		Offers:      make(map[string]string, len(defaultOffers)),
	}
	for _, kind := range negotiation.KindNames() {
		cfg.Offers[kind] = withDefault(fileConfig.Offers[kind], defaultOffers[kind])
	}
	for kind := range fileConfig.Offers {
		if _, ok := cfg.Offers[kind]; !ok {
			return nil, fmt.Errorf("unknown negotiation kind in offers: %s", kind)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OffersFor resolves the configured availability for a kind.
func (c *Config) OffersFor(kind string) ([]negotiation.Offer, error) {
	raw, ok := c.Offers[kind]
	if !ok {
		return nil, fmt.Errorf("no offers configured for kind %s", kind)
	}
	offers, err := variants.ParseOffers(raw)
	if err != nil {
		return nil, fmt.Errorf("offers for %s: %w", kind, err)
	}
	return offers, nil
}

// validate resolves every configured declaration and checks its weights.
func (c *Config) validate() error {
	for _, kind := range negotiation.KindNames() {
		offers, err := c.OffersFor(kind)
		if err != nil {
			return err
		}
		if err := negotiation.ValidateOffers(offers); err != nil {
			return fmt.Errorf("offers for %s: %w", kind, err)
		}
	}
	return nil
}

// envOrDefault returns the environment variable value or a default.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}
