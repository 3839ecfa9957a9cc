package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. Write timeout stays above the submission
// transaction timeout so slow commits surface as domain timeouts, not as
// dropped connections.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
