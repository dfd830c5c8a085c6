// Package api exposes the slot-prediction engine over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SMUK0/RandomForest/pkg/core/scheduler"
)

// Server hosts the prediction endpoint.
type Server struct {
	scorer scheduler.Scorer
	slots  scheduler.SlotConfig
	logger *zap.Logger
	http   *http.Server
}

// NewServer wires the router and handlers.
func NewServer(addr string, scorer scheduler.Scorer, slots scheduler.SlotConfig, logger *zap.Logger) *Server {
	s := &Server{
		scorer: scorer,
		slots:  slots,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Get("/healthz", s.handleHealth)
	r.Post("/predict_slots", s.handlePredictSlots)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving requests until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.http.Addr))
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// requestLogger emits a structured log line per request.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
