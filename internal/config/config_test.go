package config

import (
	"os"
	"path/filepath"
	"testing"

	"conneg/internal/negotiation"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "ENVIRONMENT", "LOG_LEVEL",
		"CHARSET_OFFERS", "ENCODING_OFFERS", "LANGUAGE_OFFERS", "MEDIATYPE_OFFERS",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %s, want development", cfg.Environment)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}

	// Every kind must resolve to usable offers out of the box.
	for _, kind := range negotiation.KindNames() {
		offers, err := cfg.OffersFor(kind)
		if err != nil {
			t.Errorf("OffersFor(%q) error: %v", kind, err)
			continue
		}
		if err := negotiation.ValidateOffers(offers); err != nil {
			t.Errorf("default offers for %q invalid: %v", kind, err)
		}
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CHARSET_OFFERS", "utf-8, koi8-r;w=0.4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Environment != "production" {
		t.Errorf("Environment = %s, want production", cfg.Environment)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}

	offers, err := cfg.OffersFor(negotiation.KindCharset)
	if err != nil {
		t.Fatalf("OffersFor(charset) error: %v", err)
	}
	want := []negotiation.Offer{
		{Value: "utf-8", Weight: 1000},
		{Value: "koi8-r", Weight: 400},
	}
	if len(offers) != len(want) {
		t.Fatalf("got %d offers, want %d", len(offers), len(want))
	}
	for i := range offers {
		if offers[i] != want[i] {
			t.Errorf("offer %d = %+v, want %+v", i, offers[i], want[i])
		}
	}
}

func TestLoadRejectsInvalidOffers(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "unparsable declaration", value: "utf-8;;"},
		{name: "weight out of range", value: "utf-8;w=1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("CHARSET_OFFERS", tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() succeeded with CHARSET_OFFERS=%q, want error", tt.value)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"environment": "production",
		"log_level": "warn",
		"offers": {
			"charset": "utf-8",
			"language": "de, de-AT;w=0.9"
		}
	}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Environment != "production" {
		t.Errorf("Environment = %s, want production", cfg.Environment)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %s, want warn", cfg.LogLevel)
	}
	if cfg.Offers[negotiation.KindCharset] != "utf-8" {
		t.Errorf("charset offers = %q, want utf-8", cfg.Offers[negotiation.KindCharset])
	}

	// Kinds absent from the file keep their defaults.
	if cfg.Offers[negotiation.KindEncoding] == "" {
		t.Error("encoding offers empty, want built-in default")
	}
}

func TestLoadFromFileRejectsUnknownKind(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"offers": {"cookie": "chocolate-chip"}}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	if _, err := Load(); err == nil {
		t.Error("Load() succeeded with unknown kind, want error")
	}
}
