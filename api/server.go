package api

import (
	"context"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/Virv12/mpris-over-http/backend/mpris"
	"github.com/Virv12/mpris-over-http/config"
	"github.com/Virv12/mpris-over-http/logger"
)

type Server struct {
	mux    *http.ServeMux
	config *config.ApiConfig
}

func NewServer(cfg *config.ApiConfig, m *mpris.Backend) *Server {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	server := &Server{
		mux:    http.NewServeMux(),
		config: cfg,
	}
	server.register(m)
	return server
}

func (s *Server) Run(ctx context.Context) error {
	var handler http.Handler = s.mux
	if s.config.CORS != nil {
		handler = corsMiddleware(s.config.CORS)(handler)
	}

	srv := &http.Server{
		Addr:    s.config.Addr(),
		Handler: handler,
		// Derive request contexts from ctx so that long-lived handlers
		// (the SSE metadata streams) exit cleanly when the application
		// shuts down, without waiting for the graceful-shutdown timeout.
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	// Shutdown on context cancellation
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Info("[api] server shutdown error: %v", err)
		}
	}()

	logger.Info("[api] http server running on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func corsMiddleware(cfg *config.CORSConfig) func(http.Handler) http.Handler {
	wildcard := slices.Contains(cfg.Origins, "*")
	logger.Info("[api] CORS enabled, origins: %v", cfg.Origins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				if wildcard {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				} else if slices.Contains(cfg.Origins, origin) {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Add("Vary", "Origin")
				}
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
