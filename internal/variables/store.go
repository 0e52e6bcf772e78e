// Package variables holds the named parameter values bound to SQL template variables.
package variables

import (
	"strings"
)

// Kind describes the shape a parameter value arrived in.
type Kind int

const (
	// KindList is a sequence of string values, possibly empty.
	KindList Kind = iota
	// KindScalar is a single value that was not wrapped in a list.
	KindScalar
	// KindNull is an absent or null value.
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindScalar:
		return "scalar"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Param is a single named parameter.
type Param struct {
	Name   string
	Values []string
	Kind   Kind
}

// Params is an ordered parameter map.
type Params []Param

// Store defines the interface for parameter storage.
type Store interface {
	// Set stores a list value for name.
	Set(name string, values []string)

	// SetScalar stores a value that was supplied without a list.
	SetScalar(name, value string)

	// SetNull records name with no value.
	SetNull(name string)

	// Get retrieves a parameter by name, ignoring case.
	Get(name string) (Param, bool)

	// Names returns parameter names in insertion order.
	Names() []string

	// Params returns a copy of all parameters in insertion order.
	Params() Params

	// Merge stores every parameter of other, in order, and reports names
	// that differ from another only in case.
	Merge(other Params) []Collision

	// Len returns the number of stored parameters.
	Len() int

	// Clear removes all stored parameters.
	Clear()
}

// MemoryStore is an ordered, slice-backed implementation of the Store interface.
// Set and friends treat names case-insensitively and keep the first position;
// Merge may hold several entries whose names differ only in case.
// It is not safe for concurrent use.
type MemoryStore struct {
	params []Param
	index  map[string]int
}

// NewStore creates and returns a new MemoryStore instance.
func NewStore() Store {
	return &MemoryStore{
		index: make(map[string]int),
	}
}

// Set stores a list value for name.
func (m *MemoryStore) Set(name string, values []string) {
	m.put(Param{Name: name, Values: cloneValues(values), Kind: KindList})
}

// SetScalar stores a value that was supplied without a list.
func (m *MemoryStore) SetScalar(name, value string) {
	m.put(Param{Name: name, Values: []string{value}, Kind: KindScalar})
}

// SetNull records name with no value.
func (m *MemoryStore) SetNull(name string) {
	m.put(Param{Name: name, Kind: KindNull})
}

func (m *MemoryStore) put(p Param) {
	key := strings.ToLower(p.Name)
	if i, ok := m.index[key]; ok {
		p.Name = m.params[i].Name
		m.params[i] = p
		return
	}
	m.index[key] = len(m.params)
	m.params = append(m.params, p)
}

// Get retrieves a parameter by name, ignoring case.
func (m *MemoryStore) Get(name string) (Param, bool) {
	i, ok := m.index[strings.ToLower(name)]
	if !ok {
		return Param{}, false
	}
	return clone(m.params[i]), true
}

// Names returns parameter names in insertion order.
func (m *MemoryStore) Names() []string {
	names := make([]string, len(m.params))
	for i, p := range m.params {
		names[i] = p.Name
	}
	return names
}

// Params returns a copy of all parameters in insertion order.
func (m *MemoryStore) Params() Params {
	out := make(Params, len(m.params))
	for i, p := range m.params {
		out[i] = clone(p)
	}
	return out
}

// Collision records a parameter whose name matches another one ignoring case.
type Collision struct {
	Name     string
	Other    string
	Replaced bool // Name overwrote the values stored earlier under Other
}

// Merge stores every parameter of other, in order. A name already in the store
// is overwritten in place. Names repeated within other are all appended, so
// each one is still applied and reported on its own.
func (m *MemoryStore) Merge(other Params) []Collision {
	var collisions []Collision
	seen := make(map[string]string, len(other))
	for _, p := range other {
		p.Values = cloneValues(p.Values)
		key := strings.ToLower(p.Name)

		if prev, ok := seen[key]; ok {
			collisions = append(collisions, Collision{Name: p.Name, Other: prev})
			m.params = append(m.params, p)
			continue
		}
		seen[key] = p.Name

		if i, ok := m.index[key]; ok && m.params[i].Name != p.Name {
			collisions = append(collisions, Collision{Name: p.Name, Other: m.params[i].Name, Replaced: true})
		}
		m.put(p)
	}
	return collisions
}

// Len returns the number of stored parameters.
func (m *MemoryStore) Len() int {
	return len(m.params)
}

// Clear removes all stored parameters.
func (m *MemoryStore) Clear() {
	m.params = nil
	m.index = make(map[string]int)
}

func clone(p Param) Param {
	p.Values = cloneValues(p.Values)
	return p
}

func cloneValues(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
