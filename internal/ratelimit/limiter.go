// Package ratelimit throttles outbound requests to the Aguli backend.
package ratelimit

import (
	"net/http"

	"golang.org/x/time/rate"
)

// throttledTransport wraps a base RoundTripper and waits on a token bucket
// before each request.
type throttledTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

// RoundTrip waits for a token or for the request context to cancel before
// delegating to the underlying RoundTripper.
func (t throttledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// NewLimiter returns a limiter allowing rps requests per second with the
// given burst. A non-positive rps disables throttling.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Client wraps the provided HTTP client with a transport that enforces
// limiter. If base is nil, a new client is used. The base client is not
// modified.
func Client(base *http.Client, limiter *rate.Limiter) *http.Client {
	client := &http.Client{}
	if base != nil {
		*client = *base
	}
	rt := client.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	client.Transport = throttledTransport{base: rt, limiter: limiter}
	return client
}
