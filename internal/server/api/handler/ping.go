package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/espcam/campanel/internal/server/api"
	"github.com/espcam/campanel/pkg/apitypes"
)

// Version is reported by the ping endpoint; set at build time via ldflags.
var Version = "dev"

// Ping returns a handler for the "ping" endpoint.
func Ping() api.HandlerFunc {
	return func(_ *api.Request, res *api.Response, _ *slog.Logger) error {
		b, err := json.Marshal(apitypes.PingResponse{Server: "campanel", Version: Version})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
