package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/seonu/homefeed-go/internal/config"
	"github.com/seonu/homefeed-go/internal/constants"
	"github.com/seonu/homefeed-go/internal/domain"
	"github.com/seonu/homefeed-go/pkg/errors"
	"go.uber.org/zap"
)

const feedCacheControl = "public, s-maxage=600, stale-while-revalidate=120"

// FeedService is what the handlers need from the aggregation engine.
type FeedService interface {
	GetFeed(ctx context.Context) (*domain.FeedPayload, bool, error)
}

// HealthChecker reports cache-store reachability.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	svc        FeedService
	health     HealthChecker
	logger     *zap.Logger
	httpServer *http.Server
}

func NewServer(cfg config.ServerConfig, svc FeedService, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		svc:    svc,
		health: health,
		logger: logger,
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/feed", s.handleFeed).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  constants.ServerConfig.ReadTimeout,
		WriteTimeout: constants.ServerConfig.WriteTimeout,
	}
	return s
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.ServerConfig.HandlerTimeout)
	defer cancel()

	started := time.Now()
	payload, fromCache, err := s.svc.GetFeed(ctx)
	if err != nil {
		if feedErr, ok := err.(*errors.FeedUnavailableError); ok {
			s.logger.Error("all upstream feeds failed", zap.Any("sources", feedErr.Sources))
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":   feedErr.Message,
				"code":    feedErr.Code,
				"sources": feedErr.Sources,
			})
			return
		}
		s.logger.Error("feed request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "internal error",
		})
		return
	}

	source := "rebuild"
	if fromCache {
		source = "cache"
	}
	s.logger.Info("feed served",
		zap.String("source", source),
		zap.Duration("elapsed", time.Since(started)),
	)

	w.Header().Set("Cache-Control", feedCacheControl)
	w.Header().Set("X-Feed-Source", source)
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	if err := s.health.Ping(ctx); err != nil {
		s.logger.Warn("health check: cache store unreachable", zap.Error(err))
		status = "degraded"
	}
	writeJSON(w, code, map[string]string{"status": status})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
