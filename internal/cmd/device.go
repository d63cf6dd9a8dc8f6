package cmd

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/espcam/campanel/internal/log"
	"github.com/espcam/campanel/pkg/apiclient"
)

// Device holds the connection settings shared by every command that talks
// to a camera.
type Device struct {
	URL            string        `help:"Camera base address" default:"http://192.168.4.1" env:"CAMPANEL_DEVICE_URL"`
	StreamPort     int           `help:"MJPEG stream port" default:"81" env:"CAMPANEL_STREAM_PORT"`
	DialTimeout    time.Duration `help:"Connection timeout" default:"3s" env:"CAMPANEL_DIAL_TIMEOUT"`
	RequestTimeout time.Duration `help:"Per-request timeout" default:"10s" env:"CAMPANEL_REQUEST_TIMEOUT"`
}

// Client builds a device client from the settings.
func (d *Device) Client(logger *slog.Logger, rawLogger log.RawLogger) *apiclient.Client {
	c := apiclient.NewWithConfig(d.URL, &apiclient.Config{
		DialTimeout:    d.DialTimeout,
		RequestTimeout: d.RequestTimeout,
		Logger:         logger,
		Raw:            rawLogger,
	})
	if d.StreamPort > 0 {
		c.SetStreamPort(d.StreamPort)
	}
	return c
}

func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
