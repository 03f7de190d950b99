package artnet

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

const (
	// DefaultAddressRange specifies the network CIDR an art-net network should have.
	DefaultAddressRange = "2.0.0.0/8"
)

// ErrNoInterface is returned when no interface has an address inside the range.
var ErrNoInterface = errors.New("no interface found")

// FindArtNetIP finds the matching interface with an IP address inside addressRange.
func FindArtNetIP(addressRange string) (net.IP, *net.Interface, error) {
	_, cidrNet, err := net.ParseCIDR(addressRange)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid address range %q: %w", addressRange, err)
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, nil, fmt.Errorf("error getting interfaces: %w", err)
	}

	for i := range ifaces {
		address, err := ifaces[i].Addrs()
		if err != nil {
			continue
		}
		for _, addr := range address {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipNet.IP

			if strings.Contains(ip.String(), ":") {
				continue
			}

			if cidrNet.Contains(ip) {
				return ip, &ifaces[i], nil
			}
		}
	}

	return nil, nil, fmt.Errorf("failed to find the art-net IP in %s: %w", addressRange, ErrNoInterface)
}

// FindIdentity returns the IP and MAC of the interface inside addressRange.
func FindIdentity(addressRange string) (NodeIdentity, error) {
	ip, iface, err := FindArtNetIP(addressRange)
	if err != nil {
		return NodeIdentity{}, err
	}
	return NewNodeIdentity(ip, iface.HardwareAddr), nil
}

// ParseIdentity builds an identity from textual IP and MAC addresses.
// An empty mac leaves the MAC zeroed.
func ParseIdentity(ip, mac string) (NodeIdentity, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.To4() == nil {
		return NodeIdentity{}, fmt.Errorf("invalid IPv4 address %q", ip)
	}

	var hw net.HardwareAddr
	if mac != "" {
		var err error
		if hw, err = net.ParseMAC(mac); err != nil {
			return NodeIdentity{}, fmt.Errorf("invalid MAC address %q: %w", mac, err)
		}
	}
	return NewNodeIdentity(parsed, hw), nil
}
