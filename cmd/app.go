package cmd

import (
	"context"
	"errors"
	"net/http"

	"storefront/api"
	"storefront/config"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// App a built HTTP service and the resources it owns.
type App struct {
	config *config.Config
	router *api.Router
	server *http.Server
	// relay publishes outbox events in-process; set only for the mock backend,
	// whose outbox lives in this process's memory.
	relay   relay
	closers []func() error
}

type relay interface {
	Run(ctx context.Context) error
}

// Handler the root HTTP handler, for tests.
func (a *App) Handler() http.Handler {
	return a.router.GetEngine()
}

// Run serves until ctx is cancelled, then shuts down gracefully and releases
// every resource.
func (a *App) Run(ctx context.Context) error {
	relayCtx, stopRelay := context.WithCancel(ctx)
	relayDone := a.startRelay(relayCtx)
	defer func() {
		// the relay writes through the datastore, so it must exit before the closers run
		stopRelay()
		<-relayDone
		a.close()
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening",
			zap.String("addr", a.server.Addr),
			zap.String("health", "/api/v1/health"))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server", zap.Duration("timeout", a.config.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func (a *App) startRelay(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	if a.relay == nil {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		if err := a.relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("In-process outbox relay stopped", zap.Error(err))
		}
	}()
	return done
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("Failed to release resource", zap.Error(err))
		}
	}
	a.closers = nil
}
