package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/keepupapp/keepup-server/internal/api"
	"github.com/keepupapp/keepup-server/internal/config"
	"github.com/keepupapp/keepup-server/internal/logger"
	"github.com/keepupapp/keepup-server/internal/service"
)

// Version is stamped into the OpenAPI document. Overridden at link time.
var Version = "dev"

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
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:  do.MustInvoke[*service.AuthService](i),
		Task:  do.MustInvoke[*service.TaskService](i),
		Media: do.MustInvoke[*service.MediaService](i),
		Tag:   do.MustInvoke[*service.TagService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, api.Options{
		Version:           Version,
		CORSOrigins:       cfg.Server.CORSOrigins,
		AuthRatePerMinute: float64(cfg.RateLimit.AuthPerMinute),
		AuthBurst:         cfg.RateLimit.AuthBurst,
		MetricsEnabled:    cfg.Metrics.Enabled,
	}, log.Logger)

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

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
