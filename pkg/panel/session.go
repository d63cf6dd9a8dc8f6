// Package panel ties the binding engine, the device client and the joystick
// together into one control-panel session driven by view events.
package panel

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/espcam/campanel/pkg/binding"
	"github.com/espcam/campanel/pkg/control"
	"github.com/espcam/campanel/pkg/joystick"
)

// Device is the remote configuration store a session talks to.
type Device interface {
	binding.Writer
	FetchAll(ctx context.Context) (control.Snapshot, error)
}

// Session serializes all panel events. It stands in for the single event
// loop of a browser page: every operation takes the session lock.
type Session struct {
	mu       sync.Mutex
	id       string
	device   Device
	engine   *binding.Engine
	knob     *joystick.Knob
	handlers map[EventType][]HandlerFunc
	logger   *slog.Logger
}

// Options configure a Session.
type Options struct {
	Controls *control.Registry
	// Joystick surface and knob sizes, in view units.
	SurfaceWidth, SurfaceHeight float64
	KnobWidth, KnobHeight       float64
}

// DefaultOptions returns the ESP32 control set and a 200x200 joystick with a 100x100 knob.
func DefaultOptions() Options {
	return Options{
		Controls:      control.ESP32(),
		SurfaceWidth:  200,
		SurfaceHeight: 200,
		KnobWidth:     100,
		KnobHeight:    100,
	}
}

// New creates a session for device.
func New(device Device, opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Controls == nil {
		opts.Controls = control.ESP32()
	}
	id := uuid.NewString()
	logger = logger.With("session", id)
	return &Session{
		id:       id,
		device:   device,
		engine:   binding.New(opts.Controls, device, logger),
		knob:     joystick.NewKnob(opts.SurfaceWidth, opts.SurfaceHeight, opts.KnobWidth, opts.KnobHeight),
		handlers: make(map[EventType][]HandlerFunc),
		logger:   logger,
	}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// On registers h for events of type t.
func (s *Session) On(t EventType, h HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[t] = append(s.handlers[t], h)
}

func (s *Session) emit(ev Event) {
	for _, h := range s.handlers[ev.Type] {
		h(ev)
	}
}

// Hydrate reads the device configuration and applies it silently.
//
// A read failure leaves the controls at their current values; the error is
// logged, attached to the hydration-complete event and returned.
func (s *Session) Hydrate(ctx context.Context) error {
	snap, err := s.device.FetchAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err == nil:
		s.engine.Hydrate(snap)
	case errors.Is(err, control.ErrInvalidValue) && snap != nil:
		s.logger.Warn("hydrate: some values were ignored", "error", err)
		s.engine.Hydrate(snap)
		err = nil
	default:
		s.logger.Error("hydrate: could not read device configuration", "error", err)
	}
	s.emit(Event{Type: EventHydrationComplete, Err: err})
	return err
}

// Edit applies a user edit. Rejections come back as *binding.ValidationError.
func (s *Session) Edit(ctx context.Context, id control.Identifier, raw any) (control.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.engine.Hydrated() {
		s.logger.Debug("edit before hydration", "control", id)
	}
	v, err := s.engine.ApplyUserEdit(ctx, id, raw)
	s.emit(Event{Type: EventUserEdit, Control: id, Value: v, Err: err})
	return v, err
}

// DragMove moves the joystick knob by (ddx, ddy) and returns the new code.
func (s *Session) DragMove(ddx, ddy float64) joystick.Code {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := s.knob.Move(ddx, ddy)
	dx, dy := s.knob.Displacement()
	s.emit(Event{Type: EventDragMove, DX: dx, DY: dy, Code: code})
	return code
}

// DragEnd releases the knob back to its rest position.
func (s *Session) DragEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.knob.Release()
	s.emit(Event{Type: EventDragEnd})
}

// Knob returns the knob translation and displacement.
func (s *Session) Knob() (x, y, dx, dy float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	x, y = s.knob.Position()
	dx, dy = s.knob.Displacement()
	return x, y, dx, dy
}

// State returns copies of the snapshot and the presentation state.
func (s *Session) State() (control.Snapshot, binding.View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot(), s.engine.View(), s.engine.Hydrated()
}

// Controls returns the control set of the session.
func (s *Session) Controls() *control.Registry { return s.engine.Controls() }
