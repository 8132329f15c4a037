package configs

// DefaultEndpoint is where a local Ganache listens out of the box.
const DefaultEndpoint = "http://127.0.0.1:7545"

// DefaultMinAccounts is the number of accounts needed to transfer between a pair.
const DefaultMinAccounts = 2

// ChainConfig contains the information about the blockchain configuration file
type ChainConfig struct {
	Name        string     `yaml:"name"`         // Name of the chain (will be used in config print)
	Endpoint    string     `yaml:"endpoint"`     // JSON-RPC endpoint of the node under test
	MinAccounts int        `yaml:"min_accounts"` // Accounts required before measuring
	Keys        []ChainKey `yaml:"keys,flow"`    // Key information, signs locally when present
	Path        string     `yaml:"-"`            // Path the configuration was read from
}

// DefaultChainConfig returns the configuration used when no chain file is given.
func DefaultChainConfig() *ChainConfig {
	return &ChainConfig{
		Name:        "ganache",
		Endpoint:    DefaultEndpoint,
		MinAccounts: DefaultMinAccounts,
	}
}
