package apiclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/espcam/campanel/internal/log"
)

// Config controls low-level transport behavior such as timeouts.
type Config struct {
	DialTimeout    time.Duration
	RequestTimeout time.Duration
	// MaxBodyBytes bounds how much of a response body is read.
	MaxBodyBytes int64
	Logger       *slog.Logger
	Raw          log.RawLogger
}

func defaultConfig() Config {
	return Config{
		DialTimeout:    3 * time.Second,
		RequestTimeout: 10 * time.Second,
		MaxBodyBytes:   8 << 20,
	}
}

// Transport issues GET requests against the device's HTTP endpoints.
type Transport struct {
	base string
	mock func(path string, query url.Values) (int, []byte, error)
	http *http.Client
	// stream has no overall timeout; MJPEG responses never end.
	stream *http.Client
	cfg    Config
}

// NewTransport creates a new low-level transport for the device at base.
// A bare host ("192.168.4.1") is treated as http.
func NewTransport(base string) *Transport { return NewTransportWithConfig(base, nil) }

// NewTransportWithConfig creates a new low-level transport with optional configuration.
func NewTransportWithConfig(base string, cfg *Config) *Transport {
	c := defaultConfig()
	if cfg != nil {
		c = *cfg
		if c.MaxBodyBytes <= 0 {
			c.MaxBodyBytes = defaultConfig().MaxBodyBytes
		}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Raw == nil {
		c.Raw = log.NewRaw(nil)
	}
	d := &net.Dialer{Timeout: c.DialTimeout}
	rt := &http.Transport{DialContext: d.DialContext}
	return &Transport{
		base:   normalizeBase(base),
		cfg:    c,
		http:   &http.Client{Timeout: c.RequestTimeout, Transport: rt},
		stream: &http.Client{Transport: rt},
	}
}

// NewMockTransport creates a transport that returns canned responses without real networking.
// The responder receives the request path and query and returns status code and body.
func NewMockTransport(responder func(path string, query url.Values) (int, []byte, error)) *Transport {
	c := defaultConfig()
	c.Logger = slog.Default()
	c.Raw = log.NewRaw(nil)
	return &Transport{base: "http://mock", mock: responder, cfg: c}
}

// Base returns the device base address.
func (t *Transport) Base() string { return t.base }

// DoCtx performs GET <base><path>?<query> and returns the response body.
// Failures and non-2xx statuses are returned as *TransportError.
func (t *Transport) DoCtx(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	target := t.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	t.cfg.Raw.Log(true, "GET "+target)

	status, body, err := t.do(ctx, target, path, query)
	if err != nil {
		t.cfg.Raw.Log(false, fmt.Sprintf("error %v", err))
		return nil, &TransportError{Op: op, URL: target, Err: err}
	}
	t.cfg.Raw.Log(false, fmt.Sprintf("%d %d bytes", status, len(body)))
	t.cfg.Logger.Debug("request finished", "url", target, "status", status)
	if status < 200 || status > 299 {
		return body, &TransportError{Op: op, URL: target, StatusCode: status}
	}
	return body, nil
}

func (t *Transport) do(ctx context.Context, target, path string, query url.Values) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	if t.mock != nil {
		return t.mock(path, query)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := t.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, t.cfg.MaxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func normalizeBase(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return strings.TrimRight(base, "/")
}
