package http

import (
	"net"
	"net/http"
	"time"
)

// TransportFunc decorates a RoundTripper, e.g. to add auth or logging
type TransportFunc func(http.RoundTripper) http.RoundTripper

type httpConfig struct {
	connClientTimeout     time.Duration
	requestTimeout        time.Duration
	clientKeepAlive       time.Duration
	tlsHandshakeTimeout   time.Duration
	responseHeaderTimeout time.Duration
	idleConnTimeout       time.Duration
	transports            []TransportFunc
}

// Completion traffic goes to one or two hosts
const (
	maxIdleConns        = 100
	maxIdleConnsPerHost = 10
)

func defaultHTTPConfig() *httpConfig {
	return &httpConfig{
		connClientTimeout:     30 * time.Second,
		requestTimeout:        30 * time.Second,
		clientKeepAlive:       90 * time.Second,
		tlsHandshakeTimeout:   10 * time.Second,
		responseHeaderTimeout: 10 * time.Second,
		idleConnTimeout:       90 * time.Second,
	}
}

// NewClient builds the outbound client used by the completion connectors.
// The gateway connector and the openai-go SDK share it, so both get the same
// timeouts, proxy settings and transport wrappers.
func NewClient(opts ...HttpOpts) *http.Client {
	cfg := defaultHTTPConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &http.Client{
		Timeout:   cfg.requestTimeout,
		Transport: wrapTransport(baseTransport(cfg), cfg.transports),
	}
}

func baseTransport(cfg *httpConfig) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   cfg.connClientTimeout,
		KeepAlive: cfg.clientKeepAlive,
	}

	return &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,
		// A custom DialContext turns HTTP/2 off unless asked for
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          maxIdleConns,
		MaxIdleConnsPerHost:   maxIdleConnsPerHost,
		TLSHandshakeTimeout:   cfg.tlsHandshakeTimeout,
		ResponseHeaderTimeout: cfg.responseHeaderTimeout,
		IdleConnTimeout:       cfg.idleConnTimeout,
	}
}

// wrapTransport applies wrappers in order, the last one is outermost
func wrapTransport(base http.RoundTripper, wrappers []TransportFunc) http.RoundTripper {
	rt := base
	for _, wrap := range wrappers {
		rt = wrap(rt)
	}
	return rt
}
