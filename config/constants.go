package config

const (
	DefaultConfigPath = "config/config.ini"
	DefaultChainPath  = "config/chain.yml"

	DefaultFanoutLimit      = 0
	DefaultMetricsAddr      = ":9100"
	DefaultEventsBufferSize = 50
)
