package binding

import "github.com/espcam/campanel/pkg/control"

// View is the presentation state derived from dependent rules.
type View struct {
	Hidden   map[string]bool
	Disabled map[control.Identifier]bool
}

func newView() View {
	return View{Hidden: map[string]bool{}, Disabled: map[control.Identifier]bool{}}
}

// GroupVisible reports whether a dependent group is shown.
func (v View) GroupVisible(group string) bool { return !v.Hidden[group] }

// ControlEnabled reports whether a control accepts input.
func (v View) ControlEnabled(id control.Identifier) bool { return !v.Disabled[id] }

// Clone returns an independent copy of v.
func (v View) Clone() View {
	out := newView()
	for k, b := range v.Hidden {
		out.Hidden[k] = b
	}
	for k, b := range v.Disabled {
		out.Disabled[k] = b
	}
	return out
}

func (v View) apply(e Effect) {
	switch e.Kind {
	case ShowGroup:
		v.Hidden[e.Group] = false
	case HideGroup:
		v.Hidden[e.Group] = true
	case EnableControl:
		v.Disabled[e.Control] = false
	case DisableControl:
		v.Disabled[e.Control] = true
	}
}
