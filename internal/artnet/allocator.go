package artnet

import (
	"sort"
)

// block is a run of four consecutive universes of one net/subnet, collapsed to one port.
type block struct {
	key  blockKey
	rep  UniverseAddress // lowest subscribed universe of the block
	role Role
}

// Allocate compresses the subscribed universes into at most MaxPorts ports.
//
// Universes are grouped into blocks of four (net, subnet, universe/4), each
// represented by its lowest subscribed universe. Up to four blocks are
// reported as is. With more blocks, parents (net, subnet) take turns in
// ascending order, so every parent gets a port while there are at most four
// of them; the remaining blocks are left out of this reply.
//
// A block's capability is the union of role over its members; a nil role
// means DefaultRole for all universes.
func Allocate(snapshot []UniverseAddress, role RoleFunc) PortMapping {
	if role == nil {
		role = func(UniverseAddress) Role { return DefaultRole }
	}
	if len(snapshot) == 0 {
		return defaultMapping(role)
	}

	blocks := groupBlocks(snapshot, role)
	if len(blocks) > MaxPorts {
		blocks = roundRobin(blocks, MaxPorts)
	}
	return PortMapping{slots: toSlots(blocks), hasSubscriptions: true}
}

// AllocatePages returns one mapping per (net, subnet) parent, ascending.
// A parent never has more than four blocks, so each page is complete and
// its NetSwitch/SubSwitch header is valid for every port on it.
func AllocatePages(snapshot []UniverseAddress, role RoleFunc) []PortMapping {
	if role == nil {
		role = func(UniverseAddress) Role { return DefaultRole }
	}
	if len(snapshot) == 0 {
		return []PortMapping{defaultMapping(role)}
	}

	parents := groupParents(groupBlocks(snapshot, role))
	pages := make([]PortMapping, 0, len(parents))
	for _, p := range parents {
		pages = append(pages, PortMapping{slots: toSlots(p), hasSubscriptions: true})
	}
	return pages
}

func defaultMapping(role RoleFunc) PortMapping {
	addr := UniverseFrom15(0)
	return PortMapping{slots: []PortSlot{NewPortSlot(0, addr, role(addr))}}
}

// groupBlocks returns the distinct blocks of snapshot in ascending order.
func groupBlocks(snapshot []UniverseAddress, role RoleFunc) []block {
	sorted := make([]UniverseAddress, len(snapshot))
	copy(sorted, snapshot)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	var blocks []block
	for i, addr := range sorted {
		if i > 0 && sorted[i-1] == addr {
			continue
		}
		k := addr.block()
		if n := len(blocks); n > 0 && blocks[n-1].key == k {
			blocks[n-1].role = blocks[n-1].role.Union(role(addr))
			continue
		}
		blocks = append(blocks, block{key: k, rep: addr, role: role(addr)})
	}
	return blocks
}

// groupParents splits ascending blocks by parent, keeping the order.
func groupParents(blocks []block) [][]block {
	var parents [][]block
	for _, b := range blocks {
		if n := len(parents); n > 0 && parents[n-1][0].key.parent == b.key.parent {
			parents[n-1] = append(parents[n-1], b)
			continue
		}
		parents = append(parents, []block{b})
	}
	return parents
}

// roundRobin picks limit blocks, one per parent per round. The result is ascending.
func roundRobin(blocks []block, limit int) []block {
	parents := groupParents(blocks)
	next := make([]int, len(parents))
	selected := make([]block, 0, limit)

	for len(selected) < limit {
		taken := false
		for i, p := range parents {
			if len(selected) == limit {
				break
			}
			if next[i] >= len(p) {
				continue
			}
			selected = append(selected, p[next[i]])
			next[i]++
			taken = true
		}
		if !taken {
			break
		}
	}

	sort.Slice(selected, func(i, j int) bool { return selected[i].key.less(selected[j].key) })
	return selected
}

func toSlots(blocks []block) []PortSlot {
	slots := make([]PortSlot, len(blocks))
	for i, b := range blocks {
		slots[i] = NewPortSlot(uint8(i), b.rep, b.role)
	}
	return slots
}
