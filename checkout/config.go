package checkout

import (
	"os"

	"github.com/alovak/checkout-playground/gateway"
)

// Config is a configuration for the checkout application.
type Config struct {
	HTTPAddr       string
	GatewayBaseURL string
	// FlashKey signs the one-read error cookie carried across redirects.
	FlashKey string
	// SuccessStatuses is the set of gateway states shown to the user as a
	// successful payment. It tracks the gateway's enumeration, so it is
	// configuration rather than a hard-coded constant.
	SuccessStatuses []gateway.TransactionStatus
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:        "localhost:8080",
		GatewayBaseURL:  "http://localhost:9090",
		FlashKey:        "dev-flash-key",
		SuccessStatuses: gateway.DefaultSuccessStatuses(),
	}
}

func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.HTTPAddr = getenv("CHECKOUT_HTTP_ADDR", cfg.HTTPAddr)
	cfg.GatewayBaseURL = getenv("GATEWAY_BASE_URL", cfg.GatewayBaseURL)
	cfg.FlashKey = getenv("CHECKOUT_FLASH_KEY", cfg.FlashKey)
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
