// Package httpserver constructs the process HTTP server.
package httpserver

import (
	"net/http"
	"time"
)

// New wraps the handler in an http.Server with the timeouts the identity
// service's operational endpoints need. Slow-header clients are cut off
// early; the read timeout bounds the whole request since nothing served
// here streams.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
	}
}
