// Package binding keeps panel controls and the device configuration in step.
//
// The Engine owns the config snapshot and is its only mutator. User edits go
// through ApplyUserEdit, which writes to the device; values forced by
// dependent rules go through ApplyProgrammaticOverride, which never does.
// The Engine is not safe for concurrent use; callers serialize events.
package binding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/espcam/campanel/pkg/control"
)

// maxChainDepth bounds how far forced values may cascade through rules.
const maxChainDepth = 8

// Writer persists one control value on the device.
type Writer interface {
	SetOne(ctx context.Context, id control.Identifier, v control.Value) error
}

// Engine holds the config snapshot and the presentation state derived from it.
type Engine struct {
	controls *control.Registry
	rules    []Rule
	guards   []Guard
	writer   Writer
	logger   *slog.Logger

	snapshot control.Snapshot
	view     View
	hydrated bool
}

// New creates an engine with the default rules and guards. The snapshot
// starts at the registry defaults.
func New(controls *control.Registry, w Writer, logger *slog.Logger) *Engine {
	return NewWithRules(controls, w, logger, DefaultRules(), DefaultGuards())
}

// NewWithRules creates an engine with a custom rule table.
func NewWithRules(controls *control.Registry, w Writer, logger *slog.Logger, rules []Rule, guards []Guard) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		controls: controls,
		rules:    rules,
		guards:   guards,
		writer:   w,
		logger:   logger,
		snapshot: controls.Defaults(),
		view:     newView(),
	}
	e.present()
	return e
}

// Controls returns the control set the engine binds.
func (e *Engine) Controls() *control.Registry { return e.controls }

// Hydrated reports whether Hydrate has run.
func (e *Engine) Hydrated() bool { return e.hydrated }

// Value returns the displayed value of id.
func (e *Engine) Value(id control.Identifier) (control.Value, bool) {
	v, ok := e.snapshot[id]
	return v, ok
}

// Snapshot returns a copy of the current configuration snapshot.
func (e *Engine) Snapshot() control.Snapshot { return e.snapshot.Clone() }

// View returns a copy of the current presentation state.
func (e *Engine) View() View { return e.view.Clone() }

// Hydrate applies a device snapshot silently: known controls present in s
// take its value, everything else keeps its current value. Values forced by
// rules are then applied locally, so a loaded high resolution turns the face
// features off, and visibility is derived from the result. Nothing is
// written to the device.
func (e *Engine) Hydrate(s control.Snapshot) {
	for _, def := range e.controls.All() {
		v, ok := s[def.ID]
		if !ok || def.Kind == control.KindTrigger {
			continue
		}
		if v.Kind != def.Kind {
			nv, err := def.Normalize(v)
			if err != nil {
				e.logger.Warn("hydrate: ignoring value", "control", def.ID, "error", err)
				continue
			}
			v = nv
		}
		e.snapshot[def.ID] = v
	}
	e.enforce()
	e.present()
	e.hydrated = true
	e.logger.Debug("hydrated", "controls", len(s))
}

// ApplyUserEdit validates a user edit, stores it, writes it to the device
// when it changed the value (triggers always write) and runs the rules
// triggered by id.
//
// A rejected edit returns *ValidationError and leaves the snapshot and the
// device untouched. A failed device write is logged and not rolled back.
func (e *Engine) ApplyUserEdit(ctx context.Context, id control.Identifier, raw any) (control.Value, error) {
	def, ok := e.controls.Lookup(id)
	if !ok {
		return control.Value{}, fmt.Errorf("%w: %q", control.ErrUnknownControl, id)
	}
	v, err := def.Normalize(raw)
	if err != nil {
		return control.Value{}, err
	}
	if verr := e.check(def, v); verr != nil {
		e.logger.Warn("edit rejected", "control", id, "value", v, "reason", verr.Warning)
		return e.snapshot[id], verr
	}

	prev := e.snapshot[id]
	changed := def.Kind == control.KindTrigger || !prev.Equal(v)
	if def.Kind != control.KindTrigger {
		e.snapshot[id] = v
	}
	if changed && e.writer != nil {
		if err := e.writer.SetOne(ctx, id, v); err != nil {
			e.logger.Warn("device write failed, keeping local value", "control", id, "value", v.Encode(), "error", err)
		} else {
			e.logger.Debug("device write", "control", id, "value", v.Encode())
		}
	}
	if err := e.evaluate(id, v, 0); err != nil {
		return v, err
	}
	return v, nil
}

// ApplyProgrammaticOverride sets a control as a consequence of another change.
// It updates the snapshot and re-runs the rules triggered by id but never
// writes to the device.
func (e *Engine) ApplyProgrammaticOverride(id control.Identifier, v control.Value) error {
	return e.override(id, v, 0)
}

func (e *Engine) override(id control.Identifier, v control.Value, depth int) error {
	if depth > maxChainDepth {
		e.logger.Error("rule chain too deep, stopping", "control", id)
		return fmt.Errorf("rule chain exceeded %d steps at %s", maxChainDepth, id)
	}
	def, ok := e.controls.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", control.ErrUnknownControl, id)
	}
	nv, err := def.Normalize(v)
	if err != nil {
		return err
	}
	if def.Kind != control.KindTrigger {
		e.snapshot[id] = nv
	}
	return e.evaluate(id, nv, depth)
}

func (e *Engine) check(def control.Definition, v control.Value) *ValidationError {
	if def.Kind == control.KindTrigger && !e.view.ControlEnabled(def.ID) {
		return &ValidationError{Control: def.ID, Warning: "control is disabled"}
	}
	if def.Kind != control.KindToggle || !v.Bool {
		return nil
	}
	for _, g := range e.guards {
		if g.Control != def.ID {
			continue
		}
		if gv, ok := e.snapshot[g.Gate]; ok && g.When.Match(gv) {
			return &ValidationError{Control: def.ID, Warning: g.Warning}
		}
	}
	return nil
}

func (e *Engine) evaluate(id control.Identifier, v control.Value, depth int) error {
	for _, r := range e.rules {
		if r.Trigger != id || !r.When.Match(v) {
			continue
		}
		for _, eff := range r.Effects {
			if eff.Presentational() {
				e.view.apply(eff)
				continue
			}
			e.logger.Debug("rule forces value", "trigger", id, "when", r.When.Name, "control", eff.Control, "value", eff.Value)
			if err := e.override(eff.Control, eff.Value, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// enforce applies the forced values of every rule that matches the current
// snapshot. Values already in place are left alone.
func (e *Engine) enforce() {
	for _, r := range e.rules {
		v, ok := e.snapshot[r.Trigger]
		if !ok || !r.When.Match(v) {
			continue
		}
		for _, eff := range r.Effects {
			if eff.Presentational() {
				continue
			}
			if cur, ok := e.snapshot[eff.Control]; ok && cur.Equal(eff.Value) {
				continue
			}
			e.logger.Debug("hydrate: rule forces value", "trigger", r.Trigger, "control", eff.Control, "value", eff.Value)
			if err := e.override(eff.Control, eff.Value, 1); err != nil {
				e.logger.Warn("hydrate: could not apply forced value", "control", eff.Control, "error", err)
			}
		}
	}
}

// present applies the presentational effects of every rule against the
// current snapshot.
func (e *Engine) present() {
	for _, r := range e.rules {
		v, ok := e.snapshot[r.Trigger]
		if !ok || !r.When.Match(v) {
			continue
		}
		for _, eff := range r.Effects {
			if eff.Presentational() {
				e.view.apply(eff)
			}
		}
	}
}
