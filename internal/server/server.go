// Package server exposes the screening pipeline over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/Renotrader31/LEAPS/internal/cache"
	"github.com/Renotrader31/LEAPS/internal/config"
	"github.com/Renotrader31/LEAPS/internal/logger"
	"github.com/Renotrader31/LEAPS/internal/screener"
)

// Server wires the screening pipeline, the result cache and the HTTP mux.
type Server struct {
	pipeline *screener.Pipeline
	cache    *cache.Store
	window   time.Duration
	universe []string
	httpSrv  *http.Server

	// now is swappable for tests (cache bucketing, response timestamps).
	now func() time.Time
}

// New builds a Server from the loaded configuration and an assembled
// pipeline.
func New(cfg *config.Config, pipeline *screener.Pipeline) *Server {
	s := &Server{
		pipeline: pipeline,
		cache:    cache.New(cfg.Server.CacheTTL, cfg.Server.CacheMax),
		window:   cfg.Server.CacheWindow,
		universe: cfg.Screen.Universe,
		now:      func() time.Time { return time.Now().UTC() },
	}
	s.httpSrv = &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/screen", s.handleScreen)
	mux.HandleFunc("/api/chain/", s.handleChain)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// ListenAndServe blocks serving HTTP until the listener fails.
func (s *Server) ListenAndServe() error {
	logger.Infof("listening on %s", s.httpSrv.Addr)
	return s.httpSrv.ListenAndServe()
}

// Handler exposes the routed mux for tests.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }
