package handler

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/espcam/campanel/internal/server/api"
	"github.com/espcam/campanel/pkg/apitypes"
	"github.com/espcam/campanel/pkg/joystick"
	"github.com/espcam/campanel/pkg/panel"
)

// DragMove returns a handler for "drag/move <ddx> <ddy>", moving the
// joystick knob by a pointer delta.
func DragMove(s *panel.Session) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, _ *slog.Logger) error {
		if len(req.Args) != 2 {
			return fmt.Errorf("usage: drag/move <dx> <dy>")
		}
		ddx, err := strconv.ParseFloat(req.Args[0], 64)
		if err != nil {
			return err
		}
		ddy, err := strconv.ParseFloat(req.Args[1], 64)
		if err != nil {
			return err
		}
		code := s.DragMove(ddx, ddy)
		return writeJSON(res, knobState(s, code))
	}
}

// DragEnd returns a handler releasing the knob.
func DragEnd(s *panel.Session) api.HandlerFunc {
	return func(_ *api.Request, res *api.Response, _ *slog.Logger) error {
		s.DragEnd()
		return writeJSON(res, knobState(s, 0))
	}
}

func knobState(s *panel.Session, code joystick.Code) apitypes.DragResponse {
	x, y, dx, dy := s.Knob()
	return apitypes.DragResponse{Code: uint16(code), X: x, Y: y, DX: dx, DY: dy}
}
