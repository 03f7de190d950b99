package artnet

import (
	"github.com/Haba1234/go-artnet"
)

// MaxPorts is the number of ports a single ArtPollReply can describe.
const MaxPorts = 4

// UniverseAddress is a 15-bit Art-Net port-address: Net(7) | SubNet(4) | Universe(4).
type UniverseAddress struct {
	net      uint8
	subnet   uint8
	universe uint8
	combined uint16
}

// NewUniverse builds an address from its parts. Out of range bits are masked off.
func NewUniverse(net, subnet, universe uint8) UniverseAddress {
	return UniverseFrom15(uint16(net&0x7F)<<8 | uint16(subnet&0x0F)<<4 | uint16(universe&0x0F))
}

// UniverseFrom15 builds an address from the combined 15-bit value.
func UniverseFrom15(combined uint16) UniverseAddress {
	combined &= 0x7FFF
	return UniverseAddress{
		net:      uint8(combined >> 8),
		subnet:   uint8(combined>>4) & 0x0F,
		universe: uint8(combined) & 0x0F,
		combined: combined,
	}
}

func (a UniverseAddress) Net() uint8       { return a.net }
func (a UniverseAddress) Subnet() uint8    { return a.subnet }
func (a UniverseAddress) Universe() uint8  { return a.universe }
func (a UniverseAddress) Combined() uint16 { return a.combined }

// Less orders addresses by their combined value.
func (a UniverseAddress) Less(b UniverseAddress) bool {
	return a.combined < b.combined
}

// ArtNet converts the address to the go-artnet representation.
// SubUni: старший полубайт - SubNet, младший - Universe.
func (a UniverseAddress) ArtNet() artnet.Address {
	return artnet.Address{
		Net:    a.net,
		SubUni: a.subnet<<4 | a.universe,
	}
}

func (a UniverseAddress) String() string {
	return a.ArtNet().String()
}

// blockKey groups four consecutive universes of one net/subnet.
type blockKey struct {
	parent uint16 // net<<4 | subnet
	block  uint8  // universe / 4
}

func (a UniverseAddress) block() blockKey {
	return blockKey{parent: a.combined >> 4, block: a.universe / 4}
}

func (k blockKey) less(o blockKey) bool {
	if k.parent != o.parent {
		return k.parent < o.parent
	}
	return k.block < o.block
}

// Role is the capability a port is advertised with.
type Role struct {
	Input  bool
	Output bool
}

var (
	// DefaultRole is used when no role resolver is given: the node outputs DMX received over Art-Net.
	DefaultRole = Role{Output: true}
	RoleInput   = Role{Input: true}
	RoleOutput  = Role{Output: true}
	RoleIO      = Role{Input: true, Output: true}
)

// Union returns a role enabling everything either role enables.
func (r Role) Union(o Role) Role {
	return Role{Input: r.Input || o.Input, Output: r.Output || o.Output}
}

// RoleFunc resolves the capability of a subscribed universe.
type RoleFunc func(UniverseAddress) Role

// PortSlot is one advertised port of a reply.
type PortSlot struct {
	Index         uint8
	Address       UniverseAddress
	InputEnabled  bool
	OutputEnabled bool
	WireIn        uint8 // SwIn nibble
	WireOut       uint8 // SwOut nibble
}

// NewPortSlot builds a slot; SwIn/SwOut carry the low nibble of the address.
func NewPortSlot(index uint8, addr UniverseAddress, role Role) PortSlot {
	return PortSlot{
		Index:         index & 0x03,
		Address:       addr,
		InputEnabled:  role.Input,
		OutputEnabled: role.Output,
		WireIn:        addr.Universe(),
		WireOut:       addr.Universe(),
	}
}

// Role returns the capability of the slot.
func (p PortSlot) Role() Role {
	return Role{Input: p.InputEnabled, Output: p.OutputEnabled}
}

// PortMapping is the result of one allocation. It is never mutated after construction.
type PortMapping struct {
	slots            []PortSlot
	hasSubscriptions bool
}

// Count returns the number of ports to report.
func (m PortMapping) Count() int { return len(m.slots) }

// HasSubscriptions reports whether the registry was non-empty at allocation time.
func (m PortMapping) HasSubscriptions() bool { return m.hasSubscriptions }

// Slots returns a copy of the mapped ports.
func (m PortMapping) Slots() []PortSlot {
	out := make([]PortSlot, len(m.slots))
	copy(out, m.slots)
	return out
}

// Slot returns the i-th port.
func (m PortMapping) Slot(i int) (PortSlot, bool) {
	if i < 0 || i >= len(m.slots) {
		return PortSlot{}, false
	}
	return m.slots[i], true
}

// Primary returns the first port, which supplies the reply's NetSwitch/SubSwitch.
func (m PortMapping) Primary() (PortSlot, bool) {
	return m.Slot(0)
}
