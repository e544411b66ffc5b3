package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alovak/checkout-playground/checkout"
	"github.com/alovak/checkout-playground/gateway/simulator"
	"golang.org/x/exp/slog"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(logger); err != nil {
		logger.Error("application error", "err", err)
		os.Exit(1)
	}
}

// run starts the sandbox gateway first, then the checkout app pointed at it,
// and blocks until an interrupt.
func run(logger *slog.Logger) error {
	sim := simulator.NewApp(logger, simulator.ConfigFromEnv())
	if err := sim.Start(); err != nil {
		return fmt.Errorf("starting gateway simulator: %w", err)
	}

	cfg := checkout.ConfigFromEnv()
	if os.Getenv("GATEWAY_BASE_URL") == "" {
		cfg.GatewayBaseURL = "http://" + sim.Addr
	}

	app := checkout.NewApp(logger, cfg)
	if err := app.Start(); err != nil {
		sim.Shutdown()
		return fmt.Errorf("starting checkout app: %w", err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs

	app.Shutdown()
	sim.Shutdown()

	return nil
}
