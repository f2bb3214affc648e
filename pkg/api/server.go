// Package api serves the cached gas prices over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/gasprice"
)

const (
	// DefaultAddr is used when API_ADDR is unset
	DefaultAddr = ":8080"

	readHeaderTimeout = 5 * time.Second
)

// ServerConfig holds the API server dependencies
type ServerConfig struct {
	Addr    string
	Sources []GasPriceSource
	// History is optional; the history route answers 404 without it
	History HistoryReader
	// Gatherer is optional; /metrics is only routed when set
	Gatherer prometheus.Gatherer
	Logger   *logrus.Logger
}

// AddrFromEnv returns API_ADDR or DefaultAddr
func AddrFromEnv() string {
	if addr := os.Getenv("API_ADDR"); addr != "" {
		return addr
	}
	return DefaultAddr
}

// Server provides HTTP endpoints
type Server struct {
	logger   *logrus.Logger
	sources  map[gasprice.Side]GasPriceSource
	history  HistoryReader
	gatherer prometheus.Gatherer
	server   *http.Server
}

// NewServer creates a new Server instance
func NewServer(config ServerConfig) (*Server, error) {
	if len(config.Sources) == 0 {
		return nil, fmt.Errorf("api server requires at least one gas price source")
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}

	s := &Server{
		logger:   config.Logger,
		sources:  make(map[gasprice.Side]GasPriceSource, len(config.Sources)),
		history:  config.History,
		gatherer: config.Gatherer,
	}
	for _, src := range config.Sources {
		s.sources[src.Side()] = src
	}

	s.server = &http.Server{
		Addr:              config.Addr,
		Handler:           s.setupRoutes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s, nil
}

// Handler returns the routed handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind to address %s: %w", s.server.Addr, err)
	}

	go func() {
		err := s.server.Serve(ln)
		switch {
		case err == nil:
			s.logger.Info("Query server stopped normally")
		case errors.Is(err, http.ErrServerClosed):
			s.logger.Info("Query server closed gracefully")
		default:
			s.logger.WithError(err).Error("Query server error")
		}
	}()

	s.logger.WithField("addr", ln.Addr().String()).Info("Query server listening")
	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
