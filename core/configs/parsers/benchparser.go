// Package parsers presents the parsing of configuration files, which will
// parse and generate the related information necessary for the use in the
// benchmark run.
package parsers

import (
	"ledgerbench/core/configs"
	"ledgerbench/core/configs/validators"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseBenchConfig parses the benchmark configuration file from YAML.
// Reads the filepath to see if we can extract the YAML.
func ParseBenchConfig(filepath string) (*configs.BenchConfig, error) {
	// Get the configuration information from the filepath
	configFileBytes, err := os.ReadFile(filepath)

	if err != nil {
		return nil, err
	}

	return parseBenchYaml(configFileBytes, filepath)
}

// parseBenchYaml unmarshals the YAML over the default plan and validates it.
func parseBenchYaml(content []byte, path string) (*configs.BenchConfig, error) {
	benchConfig := configs.DefaultBenchConfig()

	err := yaml.Unmarshal(content, benchConfig)

	if err != nil {
		return nil, err
	}

	// Check validity
	if ok, err := validators.ValidateBenchConfig(benchConfig); !ok {
		return nil, err
	}

	benchConfig.Path = path

	return benchConfig, nil
}

// GetTotalNumberOfTransactions calculates the total number of transactions
// the benchmark submits, confirmed or not.
func GetTotalNumberOfTransactions(config *configs.BenchConfig) int {
	total := 0

	for _, nodes := range config.Consensus.Nodes {
		total += nodes * config.Consensus.Iterations
	}

	for _, txs := range config.Throughput.Txs {
		total += txs
	}

	for _, txs := range config.Traceability.Txs {
		total += txs
	}

	return total
}
