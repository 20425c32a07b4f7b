package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/VladKovDev/tguser-api/pkg/logger"
	"go.uber.org/zap"
)

// gracefulShutdown blocks until a signal arrives, ctx is cancelled or the
// HTTP server stops on its own.
func gracefulShutdown(ctx context.Context, logger logger.Logger, serverDone <-chan struct{}) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		logger.Info("context cancelled, starting shutdown")
	case sig := <-sigChan:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case <-serverDone:
		logger.Warn("HTTP server stopped, starting shutdown")
	}
}
