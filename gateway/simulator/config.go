package simulator

import "os"

// Config is a configuration for the sandbox gateway application.
type Config struct {
	HTTPAddr string
	// DSN enables the Postgres-backed transaction store when set. Empty means
	// the in-memory store, which is what tests use.
	DSN string
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr: "localhost:9090",
	}
}

func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.HTTPAddr = getenv("GATEWAY_HTTP_ADDR", cfg.HTTPAddr)
	cfg.DSN = getenv("GATEWAY_DB_DSN", cfg.DSN)
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
