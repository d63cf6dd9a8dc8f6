package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/espcam/campanel/pkg/joystick"
)

// Joystick prints the directional code of a knob displacement.
type Joystick struct {
	DX float64 `arg:"" name:"dx" help:"Horizontal displacement, positive to the right"`
	DY float64 `arg:"" name:"dy" help:"Vertical displacement, positive downward"`

	Out io.Writer `kong:"-"`
}

// Run is called by Kong when the joystick command is executed.
func (j *Joystick) Run(logger *slog.Logger) error {
	code := joystick.Encode(j.DX, j.DY)
	logger.Debug("Encoded joystick displacement", "dx", j.DX, "dy", j.DY, "code", code)
	_, err := fmt.Fprintf(stdout(j.Out), "%d (%.2f°)\n", code, code.Degrees())
	return err
}
