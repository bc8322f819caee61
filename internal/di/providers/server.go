package providers

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/samber/do/v2"

	"github.com/placarapp/placar-server/internal/api"
	"github.com/placarapp/placar-server/internal/config"
	"github.com/placarapp/placar-server/internal/logger"
	"github.com/placarapp/placar-server/internal/metrics"
	"github.com/placarapp/placar-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Shutdown()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:   do.MustInvoke[*service.AuthService](i),
		Scores: do.MustInvoke[*service.ScoreService](i),
		Games:  do.MustInvoke[*service.GameService](i),
	}

	opts := api.Options{
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		AuthPerMinute:      cfg.Limits.AuthPerMinute,
		ScoresPerMinute:    cfg.Limits.ScoresPerMinute,
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = do.MustInvoke[*metrics.Metrics](i)
	}

	if cfg.IsProduction() && slices.Contains(cfg.Server.CORSAllowedOrigins, "*") {
		log.Warn("CORS allows any origin in production", "origins", cfg.Server.CORSAllowedOrigins)
	}

	handler := api.NewServer(storeHandle.Store, services, opts, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "metrics", cfg.Metrics.Enabled)

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
