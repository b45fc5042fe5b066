// Package web provides the plumbing for mailview's RESTful API and optional UI.
package web

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/inbucket/mailview/pkg/config"
	"github.com/inbucket/mailview/pkg/message"
	"github.com/inbucket/mailview/pkg/metric"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

// Server serves the HTTP API. Routes are registered on Router before Start is called.
type Server struct {
	Router *mux.Router

	config     config.Web
	env        *Env
	httpServer *http.Server
	listener   net.Listener
	notify     chan error
	finish     sync.Once
}

// NewServer creates a Server whose handlers receive manager through their Context.
func NewServer(conf *config.Root, manager message.Manager) *Server {
	env := &Env{Manager: manager, RootConfig: conf}
	router := mux.NewRouter()
	router.Use(envMiddleware(env))
	s := &Server{
		Router: router,
		config: conf.Web,
		env:    env,
		notify: make(chan error, 1),
	}
	s.httpServer = &http.Server{
		Addr:         conf.Web.Addr,
		Handler:      requestLoggingWrapper(router),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// Handler returns the complete HTTP handler. After the first call no further routes may be
// added.
func (s *Server) Handler() http.Handler {
	s.finish.Do(s.finishRoutes)
	return s.httpServer.Handler
}

// finishRoutes adds the metrics endpoint, the optional UI directory, and the not found handler.
// The UI catch-all must come after all API routes.
func (s *Server) finishRoutes() {
	if s.config.Metrics {
		s.Router.Path("/metrics").Handler(metric.Handler()).Name("Metrics").Methods("GET")
	}
	if s.config.UIDir != "" {
		log.Info().Str("module", "web").Str("path", s.config.UIDir).Msg("Web UI content mapped")
		s.Router.Path("/").Handler(fileHandler(filepath.Join(s.config.UIDir, "index.html"))).
			Name("UIIndex").Methods("GET")
		s.Router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.config.UIDir))).
			Name("UIFiles").Methods("GET")
	}
	s.Router.NotFoundHandler = noMatchHandler(http.StatusNotFound, "No route matches URI path")
	s.Router.MethodNotAllowedHandler = noMatchHandler(http.StatusMethodNotAllowed,
		"Method not allowed for URI path")
}

// Start begins listening for HTTP requests. readyFunc is called once the listener is open.
// Start returns after ctx is cancelled and the server has shut down.
func (s *Server) Start(ctx context.Context, readyFunc func()) {
	s.finish.Do(s.finishRoutes)

	// We don't use ListenAndServe because it lacks a way to close the listener
	log.Info().Str("module", "web").Str("phase", "startup").Str("addr", s.httpServer.Addr).
		Msg("HTTP listening on tcp4")
	var err error
	s.listener, err = net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		log.Error().Str("module", "web").Str("phase", "startup").Err(err).
			Msg("HTTP failed to start TCP4 listener")
		s.notify <- err
		return
	}
	if readyFunc != nil {
		readyFunc()
	}

	// Listener go routine
	served := make(chan struct{})
	go func() {
		s.serve(ctx)
		close(served)
	}()

	// Wait for shutdown
	<-ctx.Done()
	log.Debug().Str("module", "web").Str("phase", "shutdown").Msg("HTTP server shutting down on request")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(sctx); err != nil {
		log.Error().Str("module", "web").Str("phase", "shutdown").Err(err).
			Msg("HTTP server shutdown failed")
	}
	<-served
}

// Addr returns the listening address, valid after readyFunc has been called.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Notify allows the running web server to signal a fatal error.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// serve begins serving HTTP requests
func (s *Server) serve(ctx context.Context) {
	// server.Serve blocks until we close the listener
	err := s.httpServer.Serve(s.listener)

	select {
	case <-ctx.Done():
		// Nop
	default:
		log.Error().Str("module", "web").Str("phase", "runtime").Err(err).Msg("HTTP server failed")
		s.notify <- err
	}
}
