package binding

import (
	"fmt"

	"github.com/espcam/campanel/pkg/control"
)

// EffectKind enumerates what a dependent rule can do.
type EffectKind int

const (
	ShowGroup EffectKind = iota
	HideGroup
	EnableControl
	DisableControl
	ForceValue
)

func (k EffectKind) String() string {
	switch k {
	case ShowGroup:
		return "show"
	case HideGroup:
		return "hide"
	case EnableControl:
		return "enable"
	case DisableControl:
		return "disable"
	case ForceValue:
		return "force"
	default:
		return fmt.Sprintf("effect(%d)", int(k))
	}
}

// Effect is one consequence of a rule. Group is set for show/hide, Control
// for enable/disable/force, Value for force.
type Effect struct {
	Kind    EffectKind
	Group   string
	Control control.Identifier
	Value   control.Value
}

// Presentational reports whether the effect only changes what is displayed.
func (e Effect) Presentational() bool { return e.Kind != ForceValue }

func Show(group string) Effect { return Effect{Kind: ShowGroup, Group: group} }
func Hide(group string) Effect { return Effect{Kind: HideGroup, Group: group} }

func Enable(id control.Identifier) Effect  { return Effect{Kind: EnableControl, Control: id} }
func Disable(id control.Identifier) Effect { return Effect{Kind: DisableControl, Control: id} }

func Force(id control.Identifier, v control.Value) Effect {
	return Effect{Kind: ForceValue, Control: id, Value: v}
}

// Condition decides whether a rule fires for the trigger's new value.
type Condition struct {
	Name  string
	Match func(control.Value) bool
}

// BecomesTrue matches a toggle that is now on.
func BecomesTrue() Condition {
	return Condition{Name: "becomes true", Match: func(v control.Value) bool { return v.Bool }}
}

// BecomesFalse matches a toggle that is now off.
func BecomesFalse() Condition {
	return Condition{Name: "becomes false", Match: func(v control.Value) bool { return !v.Bool }}
}

// Exceeds matches a numeric value strictly above limit.
func Exceeds(limit int) Condition {
	return Condition{
		Name: fmt.Sprintf("exceeds %d", limit),
		Match: func(v control.Value) bool {
			n, ok := v.Int()
			return ok && n > limit
		},
	}
}

// Rule is a static dependent-field relation.
type Rule struct {
	Trigger control.Identifier
	When    Condition
	Effects []Effect
}

// Guard rejects enabling Control while Gate matches When.
type Guard struct {
	Control control.Identifier
	Gate    control.Identifier
	When    Condition
	Warning string
}

// ResolutionWarning is shown when face features are enabled at a frame size
// they cannot run at.
const ResolutionWarning = "Please select CIF or lower resolution before enabling this feature!"

// DefaultRules returns the dependent rules of the ESP32 camera panel.
func DefaultRules() []Rule {
	return []Rule{
		{Trigger: control.ExposureControl, When: BecomesTrue(), Effects: []Effect{Hide(control.GroupExposureValue)}},
		{Trigger: control.ExposureControl, When: BecomesFalse(), Effects: []Effect{Show(control.GroupExposureValue)}},

		{Trigger: control.GainControl, When: BecomesTrue(), Effects: []Effect{
			Show(control.GroupGainCeiling), Hide(control.GroupManualGain),
		}},
		{Trigger: control.GainControl, When: BecomesFalse(), Effects: []Effect{
			Hide(control.GroupGainCeiling), Show(control.GroupManualGain),
		}},

		{Trigger: control.WhiteBalanceGain, When: BecomesTrue(), Effects: []Effect{Show(control.GroupWhiteBalanceMode)}},
		{Trigger: control.WhiteBalanceGain, When: BecomesFalse(), Effects: []Effect{Hide(control.GroupWhiteBalanceMode)}},

		{Trigger: control.FaceRecognition, When: BecomesTrue(), Effects: []Effect{
			Enable(control.FaceEnroll), Force(control.FaceDetection, control.Bool(true)),
		}},
		{Trigger: control.FaceRecognition, When: BecomesFalse(), Effects: []Effect{Disable(control.FaceEnroll)}},
		{Trigger: control.FaceDetection, When: BecomesFalse(), Effects: []Effect{
			Disable(control.FaceEnroll), Force(control.FaceRecognition, control.Bool(false)),
		}},

		{Trigger: control.FrameResolution, When: Exceeds(control.FrameCIF), Effects: []Effect{
			Force(control.FaceDetection, control.Bool(false)),
			Force(control.FaceRecognition, control.Bool(false)),
		}},
	}
}

// DefaultGuards returns the edit guards of the ESP32 camera panel.
func DefaultGuards() []Guard {
	gate := Exceeds(control.FrameCIF)
	return []Guard{
		{Control: control.FaceDetection, Gate: control.FrameResolution, When: gate, Warning: ResolutionWarning},
		{Control: control.FaceRecognition, Gate: control.FrameResolution, When: gate, Warning: ResolutionWarning},
	}
}
