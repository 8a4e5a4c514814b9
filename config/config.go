package config

import (
	"fmt"
	"os"

	"github.com/mezonai/forktips/branch"
	"github.com/mezonai/forktips/logx"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// LoadChainConfig reads and validates a chain.yml block tree
func LoadChainConfig(path string) (*ChainConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open chain file %s", path)
	}
	defer file.Close()

	var chainFile ChainFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&chainFile); err != nil {
		return nil, errors.Wrapf(err, "decode chain file %s", path)
	}
	if err := chainFile.Chain.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid chain file %s", path)
	}
	logx.Info("CONFIG", fmt.Sprintf("Loaded chain file %s with %d blocks", path, len(chainFile.Chain.Blocks)))
	return &chainFile.Chain, nil
}

// Validate checks that names are unique and every parent names a block of the file.
func (c *ChainConfig) Validate() error {
	if len(c.Blocks) == 0 {
		return errors.New("chain has no blocks")
	}
	names := make(map[string]struct{}, len(c.Blocks))
	for _, b := range c.Blocks {
		if b.Name == "" {
			return errors.New("block without a name")
		}
		if _, exists := names[b.Name]; exists {
			return errors.Errorf("duplicate block name %q", b.Name)
		}
		names[b.Name] = struct{}{}
	}
	for _, b := range c.Blocks {
		if b.Parent == "" {
			continue
		}
		if b.Parent == b.Name {
			return errors.Errorf("block %q is its own parent", b.Name)
		}
		if _, exists := names[b.Parent]; !exists {
			return errors.Errorf("block %q has unknown parent %q", b.Name, b.Parent)
		}
	}

	// Every block must descend from a genesis block, otherwise parents form a cycle.
	children := make(map[string][]string, len(c.Blocks))
	var queue []string
	for _, b := range c.Blocks {
		if b.Parent == "" {
			queue = append(queue, b.Name)
		} else {
			children[b.Parent] = append(children[b.Parent], b.Name)
		}
	}
	reached := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		reached++
		queue = append(queue, children[name]...)
	}
	if reached != len(c.Blocks) {
		return errors.Errorf("%d blocks do not descend from a genesis block", len(c.Blocks)-reached)
	}
	return nil
}

// LoadNodeConfig reads every section of config.ini, applying defaults for unset keys
func LoadNodeConfig(path string) (*NodeConfig, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load config %s", path)
	}
	nodeCfg := DefaultNodeConfig()
	if err := cfg.Section("registry").MapTo(&nodeCfg.Registry); err != nil {
		return nil, errors.Wrap(err, "map [registry] section")
	}
	if err := cfg.Section("metrics").MapTo(&nodeCfg.Metrics); err != nil {
		return nil, errors.Wrap(err, "map [metrics] section")
	}
	if err := cfg.Section("events").MapTo(&nodeCfg.Events); err != nil {
		return nil, errors.Wrap(err, "map [events] section")
	}
	if nodeCfg.Registry.FanoutLimit < 0 {
		return nil, errors.Errorf("fanout_limit must not be negative, got %d", nodeCfg.Registry.FanoutLimit)
	}
	if nodeCfg.Events.BufferSize <= 0 {
		nodeCfg.Events.BufferSize = DefaultEventsBufferSize
	}
	if nodeCfg.Metrics.ListenAddr == "" {
		nodeCfg.Metrics.ListenAddr = DefaultMetricsAddr
	}
	return nodeCfg, nil
}

func DefaultNodeConfig() *NodeConfig {
	return &NodeConfig{
		Registry: RegistryConfig{FanoutLimit: DefaultFanoutLimit},
		Metrics:  MetricsConfig{ListenAddr: DefaultMetricsAddr},
		Events:   EventsConfig{BufferSize: DefaultEventsBufferSize},
	}
}

// BranchConfig converts the [registry] section for branch.NewRegistry
func (c *RegistryConfig) BranchConfig() *branch.RegistryConfig {
	return &branch.RegistryConfig{
		FanoutLimit: c.FanoutLimit,
		VerifyTips:  c.VerifyTips,
	}
}
