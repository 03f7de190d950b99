package artnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryIdempotent(t *testing.T) {
	r := NewRegistry[string]()

	assert.True(t, r.Register(UniverseFrom15(10), "first"))
	assert.False(t, r.Register(UniverseFrom15(10), "second"))
	assert.Equal(t, 1, r.ActiveCount())

	v, ok := r.Lookup(UniverseFrom15(10))
	require.True(t, ok)
	assert.Equal(t, "first", v, "re-registering keeps the payload")

	assert.False(t, r.Unregister(UniverseFrom15(11)))
	assert.Equal(t, 1, r.ActiveCount())

	assert.True(t, r.Unregister(UniverseFrom15(10)))
	assert.False(t, r.Unregister(UniverseFrom15(10)))
	assert.Equal(t, 0, r.ActiveCount())
}

func TestRegistryCounts(t *testing.T) {
	r := NewRegistry[int]()
	r.Register(UniverseFrom15(1), 0)
	r.Register(UniverseFrom15(2), 0)
	r.Register(UniverseFrom15(3), 0)
	assert.Equal(t, 3, r.ActiveCount())

	r.Unregister(UniverseFrom15(2))
	assert.Equal(t, 2, r.ActiveCount())

	r.Clear()
	assert.Equal(t, 0, r.ActiveCount())
	assert.Empty(t, r.Snapshot())

	r.Register(UniverseFrom15(4), 0)
	assert.Equal(t, 1, r.ActiveCount(), "registry is usable after Clear")
}

func TestRegistrySnapshotOrdered(t *testing.T) {
	r := NewRegistry[struct{}]()
	for _, u := range []uint16{300, 5, 0x7FFF, 64, 0, 17} {
		r.Register(UniverseFrom15(u), struct{}{})
	}

	want := []UniverseAddress{
		UniverseFrom15(0), UniverseFrom15(5), UniverseFrom15(17),
		UniverseFrom15(64), UniverseFrom15(300), UniverseFrom15(0x7FFF),
	}
	assert.Equal(t, want, r.Snapshot())
	assert.Equal(t, r.Snapshot(), r.Snapshot())

	entries := r.Entries()
	require.Len(t, entries, len(want))
	for i, e := range entries {
		assert.Equal(t, want[i], e.Address)
	}
}

func TestRegistrySnapshotIsolated(t *testing.T) {
	r := NewRegistry[int]()
	r.Register(UniverseFrom15(1), 0)
	snap := r.Snapshot()

	r.Register(UniverseFrom15(2), 0)
	assert.Len(t, snap, 1)
}

func TestRegistryPortMapping(t *testing.T) {
	r := NewRegistry[Role]()
	r.Register(UniverseFrom15(1), RoleInput)
	r.Register(UniverseFrom15(2), RoleOutput)

	m := r.PortMapping(func(a UniverseAddress) Role {
		role, _ := r.Lookup(a)
		return role
	})
	require.Equal(t, 1, m.Count())
	p, _ := m.Primary()
	assert.Equal(t, UniverseFrom15(1), p.Address)
	assert.Equal(t, RoleIO, p.Role())
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := NewRegistry[int](), NewRegistry[int]()
	a.Register(UniverseFrom15(1), 0)
	assert.Equal(t, 0, b.ActiveCount())
}
