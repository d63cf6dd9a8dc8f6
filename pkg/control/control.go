// Package control describes the configurable parameters of a camera device:
// their identifiers, kinds, values and wire encoding.
package control

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Identifier is the stable key of one control. It doubles as the key used by
// the device configuration store.
type Identifier string

// Kind determines how a control value is normalized and encoded.
type Kind int

const (
	KindToggle Kind = iota
	KindRange
	KindChoice
	KindTrigger
)

func (k Kind) String() string {
	switch k {
	case KindToggle:
		return "toggle"
	case KindRange:
		return "range"
	case KindChoice:
		return "choice"
	case KindTrigger:
		return "trigger"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrUnknownControl = errors.New("unknown control")
	ErrInvalidValue   = errors.New("invalid value")
)

// Value is a control value normalized to its kind.
// Toggles carry Bool, ranges and choices carry their raw Text, triggers carry nothing.
type Value struct {
	Kind Kind
	Bool bool
	Text string
}

// Bool returns a toggle value.
func Bool(b bool) Value { return Value{Kind: KindToggle, Bool: b} }

// Number returns a range value.
func Number(n int) Value { return Value{Kind: KindRange, Text: strconv.Itoa(n)} }

// Choice returns a choice value.
func Choice(s string) Value { return Value{Kind: KindChoice, Text: s} }

// Trigger returns the (payload-less) value of a trigger control.
func Trigger() Value { return Value{Kind: KindTrigger} }

// Int reports the numeric value of a range or choice value.
func (v Value) Int() (int, bool) {
	switch v.Kind {
	case KindToggle:
		if v.Bool {
			return 1, true
		}
		return 0, true
	case KindRange, KindChoice:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}

// Equal reports whether two values are the same after normalization.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindToggle:
		return v.Bool == o.Bool
	case KindTrigger:
		return true
	default:
		return v.Text == o.Text
	}
}

// Encode returns the textual form sent to the device as the "val" parameter.
func (v Value) Encode() string {
	switch v.Kind {
	case KindToggle:
		if v.Bool {
			return "1"
		}
		return "0"
	case KindTrigger:
		return "1"
	default:
		return v.Text
	}
}

// Native returns the value as a plain Go value suitable for JSON/YAML/TOML output.
func (v Value) Native() any {
	switch v.Kind {
	case KindToggle:
		return v.Bool
	case KindRange:
		if n, ok := v.Int(); ok {
			return int64(n)
		}
		return v.Text
	case KindTrigger:
		return nil
	default:
		return v.Text
	}
}

func (v Value) String() string {
	if v.Kind == KindToggle {
		return strconv.FormatBool(v.Bool)
	}
	return v.Encode()
}

// Definition declares one control.
type Definition struct {
	ID      Identifier
	Label   string
	Kind    Kind
	Default Value
	// Group is the element shown or hidden together with the control, if any.
	Group string
	// Options lists the labels of a choice control, indexed by value.
	Options []string
	// Min and Max bound a range control. Equal bounds leave it unbounded.
	Min int
	Max int
}

// Normalize converts a raw value (as received from a device payload or a
// user edit) into a Value of the definition's kind.
//
// Toggles accept booleans, numbers (non-zero is true) and the strings
// "1"/"0"/"true"/"false"/"on"/"off". Ranges must be finite numbers within
// Min..Max when bounds are set. Choices are passed through as text.
// Triggers ignore the input.
func (d Definition) Normalize(raw any) (Value, error) {
	switch d.Kind {
	case KindToggle:
		b, err := toBool(raw)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w", d.ID, err)
		}
		return Bool(b), nil
	case KindRange:
		s, err := toText(raw)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w", d.ID, err)
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return Value{}, fmt.Errorf("%s: %w: %q is not numeric", d.ID, ErrInvalidValue, s)
		}
		if d.Min != d.Max && (n < float64(d.Min) || n > float64(d.Max)) {
			return Value{}, fmt.Errorf("%s: %w: %s outside [%d, %d]", d.ID, ErrInvalidValue, s, d.Min, d.Max)
		}
		return Value{Kind: KindRange, Text: s}, nil
	case KindChoice:
		s, err := toText(raw)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w", d.ID, err)
		}
		return Choice(s), nil
	case KindTrigger:
		return Trigger(), nil
	default:
		return Value{}, fmt.Errorf("%s: %w: unsupported kind %v", d.ID, ErrInvalidValue, d.Kind)
	}
}

func toBool(raw any) (bool, error) {
	switch t := raw.(type) {
	case bool:
		return t, nil
	case Value:
		if t.Kind == KindToggle {
			return t.Bool, nil
		}
		return toBool(t.Text)
	case int:
		return t != 0, nil
	case int64:
		return t != 0, nil
	case float64:
		return t != 0, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return f != 0, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "on", "yes":
			return true, nil
		case "0", "false", "off", "no", "":
			return false, nil
		}
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f != 0, nil
		}
		return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, t)
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, raw)
	}
}

func toText(raw any) (string, error) {
	switch t := raw.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case Value:
		return t.Encode(), nil
	case json.Number:
		return t.String(), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		if t {
			return "1", nil
		}
		return "0", nil
	default:
		return "", fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, raw)
	}
}

// Snapshot maps every observed control to its current value.
type Snapshot map[Identifier]Value

// Clone returns an independent copy of s.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Native converts the snapshot to plain values keyed by identifier.
// Trigger controls have no state and are omitted.
func (s Snapshot) Native() map[string]any {
	out := make(map[string]any, len(s))
	for k, v := range s {
		if v.Kind == KindTrigger {
			continue
		}
		out[string(k)] = v.Native()
	}
	return out
}
