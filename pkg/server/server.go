// Package server runs the auxiliary HTTP endpoints (metrics, pprof).
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// Server is an HTTP server bound to a listener.
type Server struct {
	name     string
	listener net.Listener
	http     *http.Server
	logger   *logrus.Logger
	done     chan struct{}
}

// Start binds addr and serves handler in the background. Bind errors are
// returned immediately. A nil logger discards serve errors.
func Start(name, addr string, handler http.Handler, logger *logrus.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%s server: %w", name, err)
	}

	s := &Server{
		name:     name,
		listener: ln,
		http: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) && s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"server": s.name,
				"error":  err,
			}).Error("HTTP server stopped")
		}
	}()

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"server": name,
			"addr":   ln.Addr().String(),
		}).Info("HTTP server listening")
	}
	return s, nil
}

// Addr returns the bound address, useful when addr had port 0.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting up to five seconds for open requests.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = s.http.Shutdown(ctx)
	<-s.done
}
