package parsers

import (
	"ledgerbench/core/configs"
	"ledgerbench/core/configs/validators"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse the chain configuration file.
// This function both (a) reads the file from disk, and (b) calls the YAML
// to be parsed.
func ParseChainConfig(filePath string) (*configs.ChainConfig, error) {

	// Get the bytes of the file
	configFileBytes, err := os.ReadFile(filePath)

	if err != nil {
		return nil, err
	}

	chainConfig, err := parseChainYaml(configFileBytes)
	if err != nil {
		return nil, err
	}

	chainConfig.Path = filePath

	return chainConfig, nil
}

// Parse the chain configuration in the YAML files.
// Fields absent from the file keep their default value.
func parseChainYaml(fileContents []byte) (*configs.ChainConfig, error) {
	chainConfig := configs.DefaultChainConfig()
	err := yaml.Unmarshal(fileContents, chainConfig)

	if err != nil {
		return nil, err
	}

	if ok, err := validators.ValidateChainConfig(chainConfig); !ok {
		return nil, err
	}

	return chainConfig, nil
}
