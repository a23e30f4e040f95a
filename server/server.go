// Package server exposes the Reef HTTP API: blob reads, dataset
// uploads and ruleset execution.
package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/datareef/reef/conf"
	"github.com/datareef/reef/ingest"
	"github.com/datareef/reef/logger"
	"github.com/datareef/reef/pipeline"
	"github.com/datareef/reef/walrus"
)

const (
	// ShutdownTimeout is how long to wait for graceful shutdown
	ShutdownTimeout = 10 * time.Second

	readHeaderTimeout = 10 * time.Second
	// Walrus store calls and AI analysis both run inside handlers, so
	// the write timeout has to cover them.
	writeTimeout = 180 * time.Second
)

// Server is the Reef API server.
type Server struct {
	// cfg holds an immutable snapshot; handlers read it through
	// config() and reloads swap the whole pointer via Reload.
	cfg      atomic.Pointer[conf.Config]
	store    *walrus.Client
	uploader *ingest.Uploader
	executor *pipeline.Executor

	httpServer *http.Server
	logger     *zap.SugaredLogger
}

// New creates a Reef API server.
func New(cfg *conf.Config, store *walrus.Client, uploader *ingest.Uploader, executor *pipeline.Executor) *Server {
	s := &Server{
		store:    store,
		uploader: uploader,
		executor: executor,
		logger:   logger.Logger,
	}
	s.cfg.Store(cfg)

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return s
}

func (s *Server) config() *conf.Config {
	return s.cfg.Load()
}

// Reload swaps in a new configuration snapshot. Safe to call while
// requests are in flight; each handler reads one consistent snapshot.
func (s *Server) Reload(cfg *conf.Config) {
	s.cfg.Store(cfg)
}

// Handler returns the fully routed handler, usable directly in tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/blob/{id}", s.handleReadBlob)
	mux.HandleFunc("GET /api/blob/{id}/csv", s.handleReadBlobAsCSV)
	mux.HandleFunc("GET /api/blob/{id}/metadata", s.handleBlobMetadata)
	mux.HandleFunc("POST /api/upload", s.handleFileUpload)
	mux.HandleFunc("POST /api/data/upload", s.handleDataUpload)
	mux.HandleFunc("POST /api/execute", s.handleExecute)

	return s.requestIDMiddleware(s.corsMiddleware(mux))
}

// Start serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.httpServer.Addr = addr

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("Reef API server listening", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	s.logger.Infow("Shutting down Reef API server")
	return s.httpServer.Shutdown(shutdownCtx)
}
