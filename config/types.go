package config

// RegistryConfig is the [registry] section of config.ini
type RegistryConfig struct {
	FanoutLimit int  `ini:"fanout_limit"`
	VerifyTips  bool `ini:"verify_tips"`
}

// MetricsConfig is the [metrics] section of config.ini
type MetricsConfig struct {
	Enabled    bool   `ini:"enabled"`
	ListenAddr string `ini:"listen_addr"`
}

// EventsConfig is the [events] section of config.ini
type EventsConfig struct {
	BufferSize int `ini:"buffer_size"`
}

// NodeConfig groups every section of config.ini
type NodeConfig struct {
	Registry RegistryConfig
	Metrics  MetricsConfig
	Events   EventsConfig
}

// ChainBlock is one block of a chain fixture. An empty Parent marks a genesis block.
type ChainBlock struct {
	Name   string `yaml:"name"`
	Parent string `yaml:"parent"`
	Slot   uint64 `yaml:"slot"`
	Leader string `yaml:"leader"`
}

// ChainConfig holds the block tree described by chain.yml
type ChainConfig struct {
	Blocks []ChainBlock `yaml:"blocks"`
}

// ChainFile is the top-level structure for chain.yml
type ChainFile struct {
	Chain ChainConfig `yaml:"chain"`
}
