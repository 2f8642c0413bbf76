package session

import (
	"maps"
	"slices"
	"sync"
)

// Session is the capability contract the middleware wraps. Implementations
// are owned by the store collaborator; the middleware never inspects state
// beyond these methods, only whether a mutating one was invoked.
type Session interface {
	// ID returns the session identifier, empty for a fresh session.
	ID() string

	// Has reports whether key holds a value, flashed or plain.
	Has(key string) bool

	// Get returns the value for key, or nil when absent.
	// Reading a flashed value consumes it.
	Get(key string) any

	// Keys returns the plain (non-flashed) keys in sorted order.
	Keys() []string

	// Snapshot returns a copy of the raw data, including pending flashes,
	// suitable for serialization.
	Snapshot() map[string]any

	// Set stores value under key.
	Set(key string, value any)

	// Delete removes key, including a pending flash under the same key.
	Delete(key string)

	// Flash stores a one-time value that the next Get for key consumes.
	Flash(key string, value any)

	// Clear removes all data, flashed or plain.
	Clear()
}

// flashPrefix namespaces one-time values inside the raw session data so
// they round-trip through any store that persists a flat map.
const flashPrefix = "__flash_"

func flashKey(key string) string {
	return flashPrefix + key + "__"
}

// Data is the map-backed Session used by stores that encode session state
// as a flat JSON object. It is safe for concurrent use within a request.
type Data struct {
	id string

	mu   sync.RWMutex
	data map[string]any
}

var _ Session = (*Data)(nil)

// New creates a map-backed session. A nil data map starts empty.
func New(id string, data map[string]any) *Data {
	if data == nil {
		data = make(map[string]any)
	}

	return &Data{id: id, data: data}
}

// ID returns the session identifier.
func (d *Data) ID() string {
	return d.id
}

// Has reports whether key holds a plain or flashed value.
func (d *Data) Has(key string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, ok := d.data[key]; ok {
		return true
	}

	_, ok := d.data[flashKey(key)]

	return ok
}

// Get returns the plain value for key, or the flashed value, consuming it.
func (d *Data) Get(key string) any {
	d.mu.Lock()
	defer d.mu.Unlock()

	if value, ok := d.data[key]; ok {
		return value
	}

	fk := flashKey(key)

	value, ok := d.data[fk]
	if !ok {
		return nil
	}

	delete(d.data, fk)

	return value
}

// Keys returns the plain keys in sorted order.
func (d *Data) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	keys := make([]string, 0, len(d.data))

	for key := range d.data {
		if len(key) > len(flashPrefix) && key[:len(flashPrefix)] == flashPrefix {
			continue
		}

		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}

// Snapshot returns a copy of the raw data, including pending flashes.
func (d *Data) Snapshot() map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return maps.Clone(d.data)
}

// Set stores value under key.
func (d *Data) Set(key string, value any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.data[key] = value
}

// Delete removes key and any pending flash under the same key.
func (d *Data) Delete(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.data, key)
	delete(d.data, flashKey(key))
}

// Flash stores a one-time value consumed by the next Get for key.
func (d *Data) Flash(key string, value any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.data[flashKey(key)] = value
}

// Clear removes all data. The session identifier is kept.
func (d *Data) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	clear(d.data)
}
