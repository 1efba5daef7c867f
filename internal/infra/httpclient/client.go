package httpclient

import (
	"net"
	"net/http"
	"time"

	"github.com/aalvaropc/seqyank/internal/domain"
)

type Config struct {
	// Total timeout for one upstream call, including reading the body.
	// A context deadline can still override this.
	Timeout time.Duration

	// Transport / dial timeouts.
	DialTimeout     time.Duration
	KeepAlive       time.Duration
	TLSHandshake    time.Duration
	ResponseHeader  time.Duration
	IdleConnTimeout time.Duration

	MaxIdleConnsPerHost int

	// MaxBodyBytes bounds buffered responses. Streams are not bounded.
	MaxBodyBytes int64
}

func DefaultConfig() Config {
	return Config{
		Timeout:             60 * time.Second,
		DialTimeout:         5 * time.Second,
		KeepAlive:           30 * time.Second,
		TLSHandshake:        5 * time.Second,
		ResponseHeader:      30 * time.Second,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 4,
		MaxBodyBytes:        64 << 20,
	}
}

// FromUpstream applies the workspace upstream settings over the defaults.
func FromUpstream(u domain.UpstreamConfig) Config {
	cfg := DefaultConfig()
	if u.Timeout > 0 {
		cfg.Timeout = u.Timeout
	}
	if u.MaxBodyBytes > 0 {
		cfg.MaxBodyBytes = u.MaxBodyBytes
	}
	return cfg
}

// New builds the client. Its own timeout is left unset; Executor applies
// Config.Timeout per call so streamed bodies are covered too.
func New(cfg Config) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}

	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:       cfg.IdleConnTimeout,
			TLSHandshakeTimeout:   cfg.TLSHandshake,
			ResponseHeaderTimeout: cfg.ResponseHeader,
		},
	}
}
