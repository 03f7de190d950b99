package artnet

import (
	"sort"
)

// Entry is a registered universe together with the caller's payload.
type Entry[T any] struct {
	Address UniverseAddress
	Value   T
}

// Registry holds the currently subscribed universes.
// It is not safe for concurrent use; the owner serializes access.
type Registry[T any] struct {
	entries map[uint16]Entry[T]
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{entries: map[uint16]Entry[T]{}}
}

// Register adds addr if it is not registered yet. The payload of an
// already registered address is kept. Reports whether addr was added.
func (r *Registry[T]) Register(addr UniverseAddress, value T) bool {
	if _, ok := r.entries[addr.Combined()]; ok {
		return false
	}
	r.entries[addr.Combined()] = Entry[T]{Address: addr, Value: value}
	return true
}

// Unregister removes addr. Reports whether it was registered.
func (r *Registry[T]) Unregister(addr UniverseAddress) bool {
	if _, ok := r.entries[addr.Combined()]; !ok {
		return false
	}
	delete(r.entries, addr.Combined())
	return true
}

// Clear removes all universes.
func (r *Registry[T]) Clear() {
	r.entries = map[uint16]Entry[T]{}
}

// ActiveCount returns the number of registered universes.
func (r *Registry[T]) ActiveCount() int {
	return len(r.entries)
}

// Lookup returns the payload registered for addr.
func (r *Registry[T]) Lookup(addr UniverseAddress) (T, bool) {
	e, ok := r.entries[addr.Combined()]
	return e.Value, ok
}

// Entries returns all entries ordered by address.
func (r *Registry[T]) Entries() []Entry[T] {
	out := make([]Entry[T], 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address.Less(out[j].Address) })
	return out
}

// Snapshot returns the registered addresses in ascending order.
func (r *Registry[T]) Snapshot() []UniverseAddress {
	entries := r.Entries()
	out := make([]UniverseAddress, len(entries))
	for i, e := range entries {
		out[i] = e.Address
	}
	return out
}

// PortMapping allocates ports for the current subscriptions.
func (r *Registry[T]) PortMapping(role RoleFunc) PortMapping {
	return Allocate(r.Snapshot(), role)
}
