// Package ops exposes the operational HTTP endpoints: a liveness probe that
// pings the store and the Prometheus metrics handler.
package ops

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"giftmarket-bot/internal/metrics"
)

const (
	healthTimeout   = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	db  *gorm.DB
	srv *http.Server
}

func NewServer(addr string, db *gorm.DB) *Server {
	s := &Server{db: db}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", metrics.Handler)
	s.srv = &http.Server{Addr: addr, Handler: mux}
	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := s.db.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logrus.Warnf("Health check failed: %v", err)
		http.Error(w, "unhealthy", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Start serves in the background; failures other than a clean shutdown are
// logged, not fatal.
func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("Ops server stopped: %v", err)
		}
	}()
}

func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		logrus.Warnf("Ops server shutdown: %v", err)
	}
}
