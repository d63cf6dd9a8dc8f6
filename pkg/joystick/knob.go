package joystick

import "math"

// Knob tracks the draggable knob of an on-screen joystick. Its displacement
// from the centered rest position is clamped so the knob never leaves the
// joystick surface.
//
// A Knob is not safe for concurrent use.
type Knob struct {
	surfaceW, surfaceH float64
	knobW, knobH       float64
	dx, dy             float64
}

// NewKnob returns a knob of size knobW x knobH resting at the center of a
// surface of size surfaceW x surfaceH.
func NewKnob(surfaceW, surfaceH, knobW, knobH float64) *Knob {
	return &Knob{surfaceW: surfaceW, surfaceH: surfaceH, knobW: knobW, knobH: knobH}
}

// Rest returns the translation that centers the knob on the surface.
func (k *Knob) Rest() (x, y float64) {
	return k.surfaceW/2 - k.knobW/2, k.surfaceH/2 - k.knobH/2
}

// Limits returns the largest displacement allowed along each axis.
func (k *Knob) Limits() (maxDX, maxDY float64) {
	return math.Max(0, (k.surfaceW-k.knobW)/2), math.Max(0, (k.surfaceH-k.knobH)/2)
}

// Displacement returns the current offset from the rest position.
func (k *Knob) Displacement() (dx, dy float64) { return k.dx, k.dy }

// Position returns the knob translation on the surface.
func (k *Knob) Position() (x, y float64) {
	rx, ry := k.Rest()
	return rx + k.dx, ry + k.dy
}

// Move drags the knob by (ddx, ddy), clamps it to the surface and returns
// the directional code of the new displacement.
func (k *Knob) Move(ddx, ddy float64) Code {
	mx, my := k.Limits()
	k.dx = clamp(k.dx+ddx, mx)
	k.dy = clamp(k.dy+ddy, my)
	return Encode(k.dx, k.dy)
}

// Release returns the knob to its rest position.
func (k *Knob) Release() {
	k.dx, k.dy = 0, 0
}

func clamp(v, limit float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-limit, math.Min(limit, v))
}
