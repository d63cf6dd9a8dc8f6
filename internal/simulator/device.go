// Package simulator emulates the HTTP interface of an ESP32 camera so the
// panel can be developed and tested without hardware.
package simulator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/espcam/campanel/pkg/control"
)

// Write records one accepted /control request.
type Write struct {
	ID    control.Identifier
	Value string
}

// Device is an in-memory camera configuration store.
type Device struct {
	mu       sync.Mutex
	controls *control.Registry
	state    control.Snapshot
	writes   []Write
	enrolled int
	failing  bool
	logger   *slog.Logger

	// FrameInterval paces the MJPEG stream.
	FrameInterval time.Duration
}

// New returns a device initialised with the registry defaults.
func New(controls *control.Registry, logger *slog.Logger) *Device {
	if logger == nil {
		logger = slog.Default()
	}
	return &Device{
		controls:      controls,
		state:         controls.Defaults(),
		logger:        logger,
		FrameInterval: 100 * time.Millisecond,
	}
}

// Set overrides a stored value without recording a write.
func (d *Device) Set(id control.Identifier, v control.Value) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state[id] = v
}

// State returns a copy of the stored configuration.
func (d *Device) State() control.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.Clone()
}

// Writes returns the accepted /control requests in arrival order.
func (d *Device) Writes() []Write {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Write(nil), d.writes...)
}

// Enrolled returns how many enrollment triggers were received.
func (d *Device) Enrolled() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enrolled
}

// SetFailing makes every endpoint answer 500 until cleared.
func (d *Device) SetFailing(failing bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failing = failing
}

func (d *Device) isFailing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.failing
}

// Handler returns the configuration and capture endpoints.
func (d *Device) Handler() http.Handler {
	r := newEngine()
	r.Use(d.failure)
	r.GET("/status", d.status)
	r.GET("/control", d.control)
	r.GET("/capture", d.capture)
	return r
}

// StreamHandler returns the MJPEG endpoint, served on its own port.
func (d *Device) StreamHandler() http.Handler {
	r := newEngine()
	r.Use(d.failure)
	r.GET("/stream", d.stream)
	return r
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

func (d *Device) failure(c *gin.Context) {
	if d.isFailing() {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Next()
}

func (d *Device) status(c *gin.Context) {
	d.mu.Lock()
	out := make(map[string]any, len(d.state))
	for id, v := range d.state {
		switch v.Kind {
		case control.KindTrigger:
			continue
		case control.KindToggle:
			if v.Bool {
				out[string(id)] = 1
			} else {
				out[string(id)] = 0
			}
		default:
			if n, ok := v.Int(); ok {
				out[string(id)] = n
			} else {
				out[string(id)] = v.Text
			}
		}
	}
	d.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (d *Device) control(c *gin.Context) {
	name := c.Query("var")
	raw := c.Query("val")
	def, ok := d.controls.Lookup(control.Identifier(name))
	if !ok {
		d.logger.Warn("simulator: unknown control", "var", name)
		c.Status(http.StatusInternalServerError)
		return
	}
	v, err := def.Normalize(raw)
	if err != nil {
		d.logger.Warn("simulator: bad value", "var", name, "val", raw, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	d.mu.Lock()
	d.writes = append(d.writes, Write{ID: def.ID, Value: raw})
	if def.Kind == control.KindTrigger {
		d.enrolled++
	} else {
		d.state[def.ID] = v
	}
	d.mu.Unlock()

	d.logger.Debug("simulator: control", "var", name, "val", raw)
	c.Status(http.StatusOK)
}

func (d *Device) capture(c *gin.Context) {
	frame, err := d.frame(0)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("Content-Disposition", "inline; filename=capture.jpg")
	c.Data(http.StatusOK, "image/jpeg", frame)
}

const streamBoundary = "123456789000000000000987654321"

func (d *Device) stream(c *gin.Context) {
	c.Header("Content-Type", "multipart/x-mixed-replace;boundary="+streamBoundary)
	n := 0
	c.Stream(func(w io.Writer) bool {
		frame, err := d.frame(n)
		if err != nil {
			return false
		}
		n++
		if _, err := fmt.Fprintf(w, "\r\n--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", streamBoundary, len(frame)); err != nil {
			return false
		}
		if _, err := w.Write(frame); err != nil {
			return false
		}
		select {
		case <-c.Request.Context().Done():
			return false
		case <-time.After(d.FrameInterval):
			return true
		}
	})
}

// frame renders a small test pattern; seq shifts the pattern between frames.
func (d *Device) frame(seq int) ([]byte, error) {
	img := image.NewGray(image.Rect(0, 0, 80, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 80; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y + seq*4) * 2)})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Serve runs the configuration server on addr and the stream server on
// streamAddr until ctx is cancelled.
func (d *Device) Serve(ctx context.Context, addr, streamAddr string) error {
	servers := []*http.Server{
		{Addr: addr, Handler: d.Handler()},
		{Addr: streamAddr, Handler: d.StreamHandler()},
	}
	errCh := make(chan error, len(servers))
	for _, s := range servers {
		go func(s *http.Server) {
			d.logger.Info("simulator listening", "addr", s.Addr)
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(s)
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-errCh:
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, s := range servers {
		_ = s.Shutdown(shutdownCtx)
	}
	return err
}

// ParseFrameSize is a helper for presetting the simulated resolution.
func ParseFrameSize(s string) (control.Value, error) {
	if _, err := strconv.Atoi(s); err != nil {
		return control.Value{}, fmt.Errorf("frame size %q: %w", s, control.ErrInvalidValue)
	}
	return control.Choice(s), nil
}
