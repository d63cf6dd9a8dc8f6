package handler

import (
	"log/slog"

	"github.com/espcam/campanel/internal/server/api"
	"github.com/espcam/campanel/pkg/panel"
)

// Hydrate returns a handler that re-reads the device configuration and
// replies with the resulting status.
func Hydrate(s *panel.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, _ *slog.Logger) error {
		if err := s.Hydrate(req.Ctx); err != nil {
			return err
		}
		return writeJSON(res, buildStatus(s))
	}
}
