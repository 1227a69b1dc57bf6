// Package debug provides instrumentation and profiling tools for cpulog.
package debug

import (
	"net/http"
	"net/http/pprof"

	"github.com/danpilch/cpulog/pkg/server"
	"github.com/sirupsen/logrus"
)

// StartPprofServer serves the pprof handlers under /debug/pprof/ at addr
// (":6060" when empty). Returns a stop function.
func StartPprofServer(addr string, logger *logrus.Logger) (func(), error) {
	if addr == "" {
		addr = ":6060"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	s, err := server.Start("pprof", addr, mux, logger)
	if err != nil {
		return nil, err
	}
	return s.Stop, nil
}
