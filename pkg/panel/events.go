package panel

import (
	"fmt"

	"github.com/espcam/campanel/pkg/control"
	"github.com/espcam/campanel/pkg/joystick"
)

// EventType enumerates the events a Session dispatches to view handlers.
type EventType int

const (
	EventUserEdit EventType = iota
	EventHydrationComplete
	EventDragMove
	EventDragEnd
)

func (t EventType) String() string {
	switch t {
	case EventUserEdit:
		return "user-edit"
	case EventHydrationComplete:
		return "hydration-complete"
	case EventDragMove:
		return "drag-move"
	case EventDragEnd:
		return "drag-end"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event describes something that happened in a Session.
//
// For user edits Control and Value are set; Err holds a rejection or
// validation error. For hydration Err holds the read failure, if any.
// Drag events carry the knob displacement and the directional code.
type Event struct {
	Type    EventType
	Control control.Identifier
	Value   control.Value
	DX, DY  float64
	Code    joystick.Code
	Err     error
}

// HandlerFunc receives session events. Handlers run synchronously while the
// session is locked and must not call back into the session.
type HandlerFunc func(Event)
