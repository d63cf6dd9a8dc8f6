package handler

import (
	"fmt"
	"log/slog"

	"github.com/espcam/campanel/internal/server/api"
	"github.com/espcam/campanel/pkg/apitypes"
	"github.com/espcam/campanel/pkg/control"
	"github.com/espcam/campanel/pkg/panel"
)

// Set returns a handler for "set/{control} <value>". Trigger controls take
// no value. The edit goes through the binding engine, so guarded edits are
// rejected and dependent rules run.
func Set(s *panel.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, _ *slog.Logger) error {
		def, err := s.Controls().Find(req.Params["control"])
		if err != nil {
			return err
		}
		var raw any
		switch {
		case len(req.Args) >= 1:
			raw = req.Args[0]
		case def.Kind != control.KindTrigger:
			return fmt.Errorf("missing value for %s", def.ID)
		}
		v, err := s.Edit(req.Ctx, def.ID, raw)
		if err != nil {
			return err
		}
		_, view, _ := s.State()
		return writeJSON(res, apitypes.SetResponse{
			Control:      string(def.ID),
			Value:        v.Native(),
			Encoded:      v.Encode(),
			HiddenGroups: hiddenGroups(view),
			Disabled:     disabledControls(view),
		})
	}
}
