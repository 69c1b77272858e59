package httputil

import (
	"net/http"
	"time"
)

const DefaultTimeout = 30 * time.Second

// NewClient returns an HTTP client with standard timeout configuration.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
	}
}

// NewPollClient returns a client suitable for long-poll requests that are
// expected to hang for up to pollTimeout before the server responds.
func NewPollClient(pollTimeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: pollTimeout + 10*time.Second,
	}
}
