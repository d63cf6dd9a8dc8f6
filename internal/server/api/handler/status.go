package handler

import (
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/espcam/campanel/internal/server/api"
	"github.com/espcam/campanel/pkg/apitypes"
	"github.com/espcam/campanel/pkg/binding"
	"github.com/espcam/campanel/pkg/panel"
)

// Status returns a handler reporting every control with its displayed value
// and presentation state.
func Status(s *panel.Session) api.HandlerFunc {
	return func(_ *api.Request, res *api.Response, _ *slog.Logger) error {
		return writeJSON(res, buildStatus(s))
	}
}

func buildStatus(s *panel.Session) apitypes.StatusResponse {
	snap, view, hydrated := s.State()
	out := apitypes.StatusResponse{
		Session:      s.ID(),
		Hydrated:     hydrated,
		HiddenGroups: hiddenGroups(view),
	}
	for _, def := range s.Controls().All() {
		out.Controls = append(out.Controls, apitypes.Control{
			ID:      string(def.ID),
			Label:   def.Label,
			Kind:    def.Kind.String(),
			Value:   snap[def.ID].Native(),
			Enabled: view.ControlEnabled(def.ID),
			Group:   def.Group,
			Visible: def.Group == "" || view.GroupVisible(def.Group),
		})
	}
	return out
}

func hiddenGroups(view binding.View) []string {
	out := []string{}
	for g, hidden := range view.Hidden {
		if hidden {
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}

func disabledControls(view binding.View) []string {
	out := []string{}
	for id, disabled := range view.Disabled {
		if disabled {
			out = append(out, string(id))
		}
	}
	sort.Strings(out)
	return out
}

func writeJSON(res *api.Response, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	res.JSON = string(b)
	return nil
}

