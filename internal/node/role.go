package node

import (
	"fmt"
	"strings"

	"artnetnode/internal/artnet"
)

// ParseRole converts a configuration role name.
func ParseRole(name string) (artnet.Role, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "output", "out":
		return artnet.RoleOutput, nil
	case "input", "in":
		return artnet.RoleInput, nil
	case "io", "both", "input-output":
		return artnet.RoleIO, nil
	case "disabled", "none":
		return artnet.Role{}, nil
	default:
		return artnet.Role{}, fmt.Errorf("unknown port role %q", name)
	}
}

// RoleName is the inverse of ParseRole.
func RoleName(r artnet.Role) string {
	switch {
	case r.Input && r.Output:
		return "io"
	case r.Input:
		return "input"
	case r.Output:
		return "output"
	default:
		return "disabled"
	}
}
