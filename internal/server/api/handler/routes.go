package handler

import (
	"github.com/espcam/campanel/internal/server/api"
	"github.com/espcam/campanel/pkg/apiclient"
	"github.com/espcam/campanel/pkg/panel"
)

// RegisterAll registers every panel endpoint on r.
func RegisterAll(r *api.Router, s *panel.Session, c *apiclient.Client) {
	r.Register("ping", Ping())
	r.Register("status", Status(s))
	r.Register("hydrate", Hydrate(s))
	r.Register("set/{control}", Set(s))
	r.Register("drag/move", DragMove(s))
	r.Register("drag/end", DragEnd(s))
	r.Register("media", Media(c))
}
