package node

import (
	"fmt"
	"strings"
	"sync"

	"artnetnode/internal/artnet"
	"artnetnode/internal/logger"
)

// Node owns the universe registry of one Art-Net node and builds its poll replies.
// It is safe for concurrent use.
type Node struct {
	log         logger.Logger
	mu          sync.Mutex
	registry    *artnet.Registry[artnet.Role]
	identity    artnet.NodeIdentity
	metadata    artnet.NodeMetadata
	defaultRole artnet.Role
}

// New returns a node with no subscriptions.
func New(log logger.Logger, id artnet.NodeIdentity, md artnet.NodeMetadata, defaultRole artnet.Role) *Node {
	return &Node{
		log:         log,
		registry:    artnet.NewRegistry[artnet.Role](),
		identity:    id,
		metadata:    md,
		defaultRole: defaultRole,
	}
}

// Register subscribes the universe with the given role.
func (n *Node) Register(addr artnet.UniverseAddress, role artnet.Role) {
	n.mu.Lock()
	added := n.registry.Register(addr, role)
	count := n.registry.ActiveCount()
	n.mu.Unlock()

	if added {
		n.log.With(logger.Fields{"module": "node", "universe": addr.String()}).Debugf("universe registered, active: %d", count)
	}
}

// Unregister drops the universe.
func (n *Node) Unregister(addr artnet.UniverseAddress) {
	n.mu.Lock()
	removed := n.registry.Unregister(addr)
	count := n.registry.ActiveCount()
	n.mu.Unlock()

	if removed {
		n.log.With(logger.Fields{"module": "node", "universe": addr.String()}).Debugf("universe unregistered, active: %d", count)
	}
}

// Clear drops every universe.
func (n *Node) Clear() {
	n.mu.Lock()
	n.registry.Clear()
	n.mu.Unlock()

	n.log.With(logger.Fields{"module": "node"}).Debug("registry cleared")
}

// ActiveCount returns the number of subscribed universes.
func (n *Node) ActiveCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.registry.ActiveCount()
}

// SetNodeReport replaces the node report text of later replies.
func (n *Node) SetNodeReport(report string) {
	n.mu.Lock()
	n.metadata.NodeReport = report
	n.mu.Unlock()
}

// Mapping allocates the ports for the current subscriptions.
func (n *Node) Mapping() artnet.PortMapping {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.registry.PortMapping(n.roleOf)
}

// Pages returns one mapping per net/subnet group.
func (n *Node) Pages() []artnet.PortMapping {
	n.mu.Lock()
	defer n.mu.Unlock()
	return artnet.AllocatePages(n.registry.Snapshot(), n.roleOf)
}

// Reply encodes the ArtPollReply for the current subscriptions.
func (n *Node) Reply() []byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	return artnet.EncodePollReply(n.identity, n.registry.PortMapping(n.roleOf), n.metadata)
}

// PagedReplies encodes one ArtPollReply per net/subnet group.
func (n *Node) PagedReplies() [][]byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	pages := artnet.AllocatePages(n.registry.Snapshot(), n.roleOf)
	out := make([][]byte, len(pages))
	for i, p := range pages {
		out[i] = artnet.EncodePollReply(n.identity, p, n.metadata)
	}
	return out
}

// roleOf must be called with mu held.
func (n *Node) roleOf(addr artnet.UniverseAddress) artnet.Role {
	if role, ok := n.registry.Lookup(addr); ok {
		return role
	}
	return n.defaultRole
}

// MappingToString returns a string representation of the given mapping.
func MappingToString(m artnet.PortMapping) string {
	if !m.HasSubscriptions() {
		return "no subscriptions"
	}

	ports := make([]string, 0, m.Count())
	for _, p := range m.Slots() {
		ports = append(ports, fmt.Sprintf("%d=%s(%s)", p.Index, p.Address.String(), RoleName(p.Role())))
	}
	return fmt.Sprintf("ports=%d [%s]", m.Count(), strings.Join(ports, "; "))
}
