package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

// SetupSignalHandler returns a context cancelled on SIGINT or SIGTERM. task
// names what the cancellation abandons, e.g. "game" or "simulation".
func SetupSignalHandler(logger *log.Logger, task string) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received signal, abandoning "+task, "signal", sig.String())
		cancel()
	}()

	return ctx
}
