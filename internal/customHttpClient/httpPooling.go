package customHttpClient

import (
	"net/http"
	"time"

	"github.com/clauselens/clauselens/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// NewPooledClient returns an http.Client sharing the process-wide pooled
// transport. Used by clients that talk to the inference services repeatedly
// so connections get reused instead of re-dialed per batch.
func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   timeout,
	}
}
