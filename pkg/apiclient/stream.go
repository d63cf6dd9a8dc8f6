package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
)

// FrameStream yields the JPEG frames of an MJPEG (multipart/x-mixed-replace) stream.
type FrameStream struct {
	body  io.ReadCloser
	parts *multipart.Reader
	// limit bounds the size of one frame.
	limit  int64
	closed bool
}

// OpenStream connects to the device's MJPEG stream. The stream stays open
// until ctx is cancelled or Close is called.
func (c *Client) OpenStream(ctx context.Context) (*FrameStream, error) {
	target, err := c.StreamURL()
	if err != nil {
		return nil, err
	}
	return c.transport.OpenStream(ctx, target)
}

// OpenStream performs GET target and prepares to read multipart frames from it.
func (t *Transport) OpenStream(ctx context.Context, target string) (*FrameStream, error) {
	if t.mock != nil {
		return nil, &TransportError{Op: "stream", URL: target, Err: errors.New("not supported with mock transport")}
	}
	t.cfg.Raw.Log(true, "GET "+target)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Op: "stream", URL: target, Err: err}
	}
	resp, err := t.stream.Do(req)
	if err != nil {
		t.cfg.Raw.Log(false, fmt.Sprintf("error %v", err))
		return nil, &TransportError{Op: "stream", URL: target, Err: err}
	}
	t.cfg.Raw.Log(false, fmt.Sprintf("%d %s", resp.StatusCode, resp.Header.Get("Content-Type")))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &TransportError{Op: "stream", URL: target, StatusCode: resp.StatusCode}
	}
	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		resp.Body.Close()
		return nil, &TransportError{Op: "stream", URL: target, Err: fmt.Errorf("unexpected content type %q", resp.Header.Get("Content-Type"))}
	}
	return &FrameStream{
		body:  resp.Body,
		parts: multipart.NewReader(resp.Body, params["boundary"]),
		limit: t.cfg.MaxBodyBytes,
	}, nil
}

// Next returns the next frame. Frames larger than the transport's
// MaxBodyBytes are rejected.
func (s *FrameStream) Next() ([]byte, error) {
	if s.closed {
		return nil, errors.New("stream closed")
	}
	p, err := s.parts.NextPart()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	frame, err := io.ReadAll(io.LimitReader(p, s.limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(frame)) > s.limit {
		return nil, fmt.Errorf("frame exceeds %d bytes", s.limit)
	}
	return frame, nil
}

// Close releases the connection. It is safe to call more than once.
func (s *FrameStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}
