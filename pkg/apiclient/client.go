package apiclient

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/espcam/campanel/pkg/control"
)

// DefaultStreamPort is the port the camera firmware serves its MJPEG stream on.
const DefaultStreamPort = 81

// Client talks to the configuration endpoints of a camera device.
// Apart from its base address it keeps no state between calls.
type Client struct {
	transport  *Transport
	controls   *control.Registry
	streamPort int
	now        func() time.Time
}

// New constructs a client for the device at base using the ESP32 control set.
func New(base string) *Client { return WithTransport(NewTransport(base)) }

// NewWithConfig constructs a client with custom transport settings.
func NewWithConfig(base string, cfg *Config) *Client {
	return WithTransport(NewTransportWithConfig(base, cfg))
}

// WithTransport constructs a Client using a custom Transport implementation.
// This is primarily useful for testing.
func WithTransport(t *Transport) *Client {
	return &Client{transport: t, controls: control.ESP32(), streamPort: DefaultStreamPort, now: time.Now}
}

// SetControls replaces the control set used to interpret device payloads.
func (c *Client) SetControls(r *control.Registry) { c.controls = r }

// SetStreamPort overrides the stream port (DefaultStreamPort by default).
func (c *Client) SetStreamPort(port int) { c.streamPort = port }

// Controls returns the control set used to interpret device payloads.
func (c *Client) Controls() *control.Registry { return c.controls }

// Base returns the device base address.
func (c *Client) Base() string { return c.transport.Base() }

// FetchAll reads the full device configuration.
//
// Values are typed by the receiving control; keys without a control are
// ignored. When some values cannot be interpreted the well-formed part of
// the snapshot is returned together with an error wrapping
// control.ErrInvalidValue.
func (c *Client) FetchAll(ctx context.Context) (control.Snapshot, error) {
	body, err := c.transport.DoCtx(ctx, "fetch-all", "/status", nil)
	if err != nil {
		return nil, err
	}
	return c.controls.DecodeJSON(body)
}

// SetOne writes a single control value to the device.
func (c *Client) SetOne(ctx context.Context, id control.Identifier, v control.Value) error {
	q := url.Values{}
	q.Set("var", string(id))
	q.Set("val", v.Encode())
	_, err := c.transport.DoCtx(ctx, "set-one", "/control", q)
	return err
}

// CaptureStill fetches a single JPEG frame. The request carries a timestamp
// so intermediate caches never serve a stale image.
func (c *Client) CaptureStill(ctx context.Context) ([]byte, error) {
	return c.transport.DoCtx(ctx, "capture", "/capture", c.CaptureQuery())
}

// CaptureQuery returns the cache-busting query of a capture request.
func (c *Client) CaptureQuery() url.Values {
	q := url.Values{}
	q.Set("_cb", strconv.FormatInt(c.now().UnixMilli(), 10))
	return q
}

// CaptureURL returns the still-capture URL, for views that load it themselves.
func (c *Client) CaptureURL() string {
	return c.Base() + "/capture?" + c.CaptureQuery().Encode()
}

// StreamURL returns the MJPEG stream address: the device host on the stream port.
func (c *Client) StreamURL() (string, error) {
	u, err := url.Parse(c.Base())
	if err != nil {
		return "", fmt.Errorf("parse base address: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("parse base address: missing host in %q", c.Base())
	}
	u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(c.streamPort))
	u.Path = "/stream"
	u.RawQuery = ""
	return u.String(), nil
}
