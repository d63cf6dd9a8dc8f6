package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/espcam/campanel/internal/log"
	"github.com/espcam/campanel/pkg/binding"
	"github.com/espcam/campanel/pkg/control"
	"github.com/espcam/campanel/pkg/panel"
)

// Set changes one control the way the panel would: the device state is read
// first so dependent rules and guards see the real configuration. Only the
// edited control is written; values forced by rules are reported but stay
// local to this run.
type Set struct {
	Control string `arg:"" help:"Control identifier, e.g. framesize or face_detect"`
	Value   string `arg:"" optional:"" help:"New value; omit for trigger controls"`

	Out io.Writer `kong:"-"`
}

// Run is called by Kong when the set command is executed.
func (s *Set) Run(logger *slog.Logger, rawLogger log.RawLogger, dev *Device) error {
	ctx := context.Background()
	c := dev.Client(logger, rawLogger)
	session := panel.New(c, panel.DefaultOptions(), logger)

	def, err := session.Controls().Find(s.Control)
	if err != nil {
		return err
	}
	var raw any
	if s.Value != "" {
		raw = s.Value
	} else if def.Kind != control.KindTrigger {
		return fmt.Errorf("missing value for %s", def.ID)
	}

	if err := session.Hydrate(ctx); err != nil {
		return err
	}
	before, _, _ := session.State()
	v, err := session.Edit(ctx, def.ID, raw)
	if err != nil {
		var verr *binding.ValidationError
		if errors.As(err, &verr) {
			return errors.New(verr.Warning)
		}
		return err
	}
	after, _, _ := session.State()
	w := stdout(s.Out)
	fmt.Fprintf(w, "%s = %s\n", def.ID, v)
	for _, other := range session.Controls().All() {
		if other.ID == def.ID || other.Kind == control.KindTrigger {
			continue
		}
		if !before[other.ID].Equal(after[other.ID]) {
			fmt.Fprintf(w, "%s = %s (forced locally, not written)\n", other.ID, after[other.ID])
		}
	}
	return nil
}
