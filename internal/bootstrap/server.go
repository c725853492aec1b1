package bootstrap

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/augustdev/amphitheatre/internal/plays"
	"github.com/augustdev/amphitheatre/internal/storage/pg"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/fx"
)

func NewRouter(
	config ServerConfig,
	playHandlers *plays.Handlers,
	db *pg.DB,
	logger *slog.Logger,
) *chi.Mux {
	router := chi.NewRouter()

	origins := config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Accept", "Last-Event-ID"},
		Debug:          false,
	}).Handler

	router.Use(corsMiddleware)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, body := http.StatusOK, map[string]string{"status": "ok"}
		if err := db.Health(ctx); err != nil {
			logger.Warn("health check failed", "error", err)
			status, body = http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})

	playHandlers.RegisterRoutes(router)

	return router
}

func StartServer(lc fx.Lifecycle, router *chi.Mux, config ServerConfig, logger *slog.Logger) {
	// Cancelled on stop so that open log streams end before Shutdown waits on them.
	baseCtx, cancelRequests := context.WithCancel(context.Background())

	server := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting server", "port", config.Port, "url", "http://localhost:"+config.Port+"/")
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Server failed to start", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down HTTP server, draining connections...")
			server.SetKeepAlivesEnabled(false)
			cancelRequests()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			err := server.Shutdown(shutdownCtx)
			if shutdownCtx.Err() != nil {
				logger.Warn("Graceful shutdown timed out after 5s, forcing close")
				if closeErr := server.Close(); closeErr != nil {
					logger.Error("Error force-closing server", "error", closeErr)
					return closeErr
				}
				logger.Info("HTTP server force-closed")
				return nil
			}
			if err != nil {
				logger.Error("Error shutting down server", "error", err)
				return err
			}
			logger.Info("HTTP server shut down gracefully")
			return nil
		},
	})
}
