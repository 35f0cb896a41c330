// Package notificationfunction assembles the HTTP service that hosts the
// sendNotification callable.
package notificationfunction

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tinywideclouds/go-microservice-base/pkg/microservice"
	"github.com/tinywideclouds/go-microservice-base/pkg/middleware"

	"github.com/tinywideclouds/go-notification-callable/internal/api"
	"github.com/tinywideclouds/go-notification-callable/notificationfunction/config"
	"github.com/tinywideclouds/go-notification-callable/pkg/dispatch"
)

type Wrapper struct {
	*microservice.BaseServer
	logger *slog.Logger
}

// New assembles the service.
func New(
	cfg *config.Config,
	dispatcher dispatch.Dispatcher,
	logger *slog.Logger,
) (*Wrapper, error) {

	// 1. Base Server
	baseServer := microservice.NewBaseServer(logger, cfg.ListenAddr)

	// 2. API
	notificationAPI := api.NewNotificationAPI(dispatcher, logger)

	// 3. Routes
	mux := baseServer.Mux()
	corsMiddleware := middleware.NewCorsMiddleware(cfg.CorsConfig, logger)
	path := cfg.RoutePath()

	// Every method reaches the callable, which answers non-POST with INVALID_ARGUMENT.
	mux.Handle(path, corsMiddleware(notificationAPI.Handler()))

	// CORS preflight
	mux.Handle("OPTIONS "+path, corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	logger.Info("Callable registered", "path", path)

	return &Wrapper{
		BaseServer: baseServer,
		logger:     logger,
	}, nil
}

// Start blocks serving HTTP until the server is shut down.
func (w *Wrapper) Start(ctx context.Context) error {
	w.SetReady(true)
	w.logger.Info("Service is now ready.")
	return w.BaseServer.Start()
}

func (w *Wrapper) Shutdown(ctx context.Context) error {
	w.logger.Info("Shutting down service components...")
	w.SetReady(false)
	if err := w.BaseServer.Shutdown(ctx); err != nil {
		w.logger.Error("HTTP server shutdown failed.", "err", err)
		return err
	}
	w.logger.Info("Service shutdown complete.")
	return nil
}
