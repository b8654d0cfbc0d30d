package fill

import "sync"

// Form is the live form the machine writes field values into. A write
// to a key the form does not render is harmless; the machine does not
// check field existence.
type Form interface {
	SetValue(key string, value any)
}

// Compile-time interface check: MapForm must implement Form.
var _ Form = (*MapForm)(nil)

// MapForm is a Form over a plain value map. Timer callbacks write from
// their own goroutines, so access is guarded.
type MapForm struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMapForm creates a form seeded with the given values. The initial
// map is copied.
func NewMapForm(initial map[string]any) *MapForm {
	values := make(map[string]any, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &MapForm{values: values}
}

// SetValue writes one field value.
func (f *MapForm) SetValue(key string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
}

// Value returns the current value for key, or nil when unset.
func (f *MapForm) Value(key string) any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values[key]
}

// Values returns a copy of all current field values.
func (f *MapForm) Values() map[string]any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]any, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}
