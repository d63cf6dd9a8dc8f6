package control

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Registry holds the control definitions known to a panel, in declaration order.
type Registry struct {
	mu    sync.RWMutex
	order []Identifier
	defs  map[Identifier]Definition
}

// NewRegistry returns a registry holding defs.
// Registering the same identifier twice panics.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{defs: make(map[Identifier]Definition, len(defs))}
	for _, d := range defs {
		r.Register(d)
	}
	return r
}

// Register adds a control definition.
func (r *Registry) Register(d Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.defs[d.ID]; dup {
		panic(fmt.Sprintf("control %q registered twice", d.ID))
	}
	if d.Default.Kind != d.Kind {
		d.Default.Kind = d.Kind
	}
	r.defs[d.ID] = d
	r.order = append(r.order, d.ID)
}

// Lookup returns the definition of id.
func (r *Registry) Lookup(id Identifier) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[id]
	return d, ok
}

// Find resolves a user-supplied name to a definition. Lookup is
// case-insensitive and accepts dashes in place of underscores.
func (r *Registry) Find(name string) (Definition, error) {
	id := Identifier(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	if d, ok := r.Lookup(id); ok {
		return d, nil
	}
	return Definition{}, fmt.Errorf("%w: %q", ErrUnknownControl, name)
}

// All returns every definition in declaration order.
func (r *Registry) All() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}

// Defaults returns the snapshot of markup defaults.
func (r *Registry) Defaults() Snapshot {
	s := make(Snapshot)
	for _, d := range r.All() {
		s[d.ID] = d.Default
	}
	return s
}

// Decode turns a flat device payload into a snapshot. The kind of every value
// comes from the receiving control; keys without a definition are ignored and
// values that fail to normalize are reported together.
func (r *Registry) Decode(raw map[string]any) (Snapshot, error) {
	s := make(Snapshot, len(raw))
	var bad []string
	for _, d := range r.All() {
		rv, ok := raw[string(d.ID)]
		if !ok {
			continue
		}
		v, err := d.Normalize(rv)
		if err != nil {
			bad = append(bad, err.Error())
			continue
		}
		s[d.ID] = v
	}
	if len(bad) > 0 {
		return s, fmt.Errorf("%w: %s", ErrInvalidValue, strings.Join(bad, "; "))
	}
	return s, nil
}

// DecodeJSON decodes a flat JSON object into a snapshot.
func (r *Registry) DecodeJSON(data []byte) (Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return r.Decode(raw)
}
