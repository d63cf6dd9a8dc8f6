// Package joystick turns an on-screen joystick drag into a directional code.
package joystick

import "math"

// Resolution is the number of directional steps in a full turn.
const Resolution = 1024

// Code is a direction in 1/1024 turns, in [0, Resolution).
// 0 points up; left is 256, down 512 and right 768.
type Code uint16

// Degrees returns the angle of c measured from the reference direction.
func (c Code) Degrees() float64 { return float64(c) * 360 / Resolution }

// Encode maps a knob displacement from its rest position to a directional
// code. dx grows to the right and dy grows downward, as on screen.
//
// The rest position (0, 0) and non-finite input encode as 0.
func Encode(dx, dy float64) Code {
	if dx == 0 && dy == 0 {
		return 0
	}
	if math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
		return 0
	}
	// Measured from the up axis; -dy because screen y points down.
	angle := math.Atan2(dx, -dy)

	var degrees float64
	if angle < 0 {
		degrees = -angle * 180 / math.Pi
	} else {
		degrees = 360 - angle*180/math.Pi
	}

	code := int(math.Round(degrees * Resolution / 360))
	if code >= Resolution {
		code = 0
	}
	return Code(code)
}
