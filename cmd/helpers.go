package main

import (
	"fmt"
	"io"

	"artnetnode/internal/artnet"
	"artnetnode/internal/config"
	"artnetnode/internal/logger"
	"artnetnode/internal/node"
)

// loadConfig reads the configuration file and creates the logger.
func loadConfig(path string, logOut io.Writer) (*config.Config, *logger.Log, error) {
	cfg, err := config.NewConfig(path)
	if err != nil {
		return nil, nil, fmt.Errorf("configuration file read error: %w", err)
	}

	log, err := logger.NewLogger(cfg.Logger, logOut)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create a logger: %w", err)
	}
	log.With(logger.Fields{"module": "logger"}).Debug("newLogger created ok")
	return cfg, log, nil
}

// identityFromConfig uses the configured addresses, or the interface inside address-range.
func identityFromConfig(cfg config.NodeConf) (artnet.NodeIdentity, error) {
	if cfg.IP != "" {
		return artnet.ParseIdentity(cfg.IP, cfg.MAC)
	}

	id, err := artnet.FindIdentity(cfg.AddressRange)
	if err != nil {
		return id, err
	}
	if cfg.MAC != "" {
		override, err := artnet.ParseIdentity("0.0.0.0", cfg.MAC)
		if err != nil {
			return id, err
		}
		id.MAC = override.MAC
	}
	return id, nil
}

// MetadataFromConfig converts the node section to reply metadata.
func MetadataFromConfig(cfg config.NodeConf) artnet.NodeMetadata {
	md := artnet.NodeMetadata{
		OEM:              cfg.OEM,
		ESTAManufacturer: cfg.ESTAManufacturer,
		Status1:          cfg.Status1,
		Status2:          cfg.Status2,
		ShortName:        cfg.ShortName,
		LongName:         cfg.LongName,
		NodeReport:       cfg.NodeReport,
	}
	copy(md.LegacySwIn[:], cfg.SwIn)
	return md
}

// buildNode creates the node and registers the static universes plus extra.
func buildNode(cfg *config.Config, log logger.Logger, extra []uint16) (*node.Node, error) {
	role, err := node.ParseRole(cfg.Node.DefaultRole)
	if err != nil {
		return nil, fmt.Errorf("default-role: %w", err)
	}

	id, err := identityFromConfig(cfg.Node)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve node identity: %w", err)
	}

	n := node.New(log, id, MetadataFromConfig(cfg.Node), role)
	for _, u := range append(append([]uint16{}, cfg.Node.Universes...), extra...) {
		n.Register(artnet.UniverseFrom15(u), role)
	}
	return n, nil
}
