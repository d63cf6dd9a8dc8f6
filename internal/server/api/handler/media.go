package handler

import (
	"log/slog"

	"github.com/espcam/campanel/internal/server/api"
	"github.com/espcam/campanel/pkg/apiclient"
	"github.com/espcam/campanel/pkg/apitypes"
)

// Media returns a handler reporting a cache-busted still capture URL and
// the stream URL of the device.
func Media(c *apiclient.Client) api.HandlerFunc {
	return func(_ *api.Request, res *api.Response, _ *slog.Logger) error {
		stream, err := c.StreamURL()
		if err != nil {
			return err
		}
		return writeJSON(res, apitypes.MediaResponse{Capture: c.CaptureURL(), Stream: stream})
	}
}
