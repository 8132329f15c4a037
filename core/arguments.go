package core

import (
	"fmt"
	"ledgerbench/core/configs"
	"ledgerbench/core/configs/parsers"
	"ledgerbench/core/configs/validators"
	"os"

	"go.uber.org/zap"
)

// BenchArgs are the command line arguments of a run. Flags given on the
// command line override the configuration files.
type BenchArgs struct {
	BenchConfigPath string // Path to the benchmark configuration, optional
	ChainConfigPath string // Path to the chain configuration, optional
	Endpoint        string // Node endpoint, overrides the chain configuration
	MinAccounts     int    // Minimum accounts, overrides the chain configuration
	OutputDir       string // Directory receiving the JSON results, optional
	JSON            bool   // Print the JSON report after the text lines
	Verbose         bool   // Debug logging
}

// CheckArgs checks the arguments conform to specified requirements
func (ba *BenchArgs) CheckArgs() error {
	if ba.MinAccounts < 0 {
		return fmt.Errorf("invalid min accounts %d", ba.MinAccounts)
	}

	if ba.OutputDir != "" {
		stat, err := os.Stat(ba.OutputDir)
		if err == nil && !stat.IsDir() {
			return fmt.Errorf("output %s is not a directory", ba.OutputDir)
		}
	}

	return nil
}

// LoadConfigs reads the configuration files, or the defaults when a path is
// empty, then applies the command line overrides.
func (ba *BenchArgs) LoadConfigs() (*configs.ChainConfig, *configs.BenchConfig, error) {
	var chain *configs.ChainConfig
	var bench *configs.BenchConfig
	var err error

	if ba.ChainConfigPath != "" {
		zap.L().Info("loading chain config", zap.String("path", ba.ChainConfigPath))

		chain, err = parsers.ParseChainConfig(ba.ChainConfigPath)
		if err != nil {
			return nil, nil, fmt.Errorf("chain config %s: %w", ba.ChainConfigPath, err)
		}
	} else {
		chain = configs.DefaultChainConfig()
	}

	if ba.BenchConfigPath != "" {
		zap.L().Info("loading bench config", zap.String("path", ba.BenchConfigPath))

		bench, err = parsers.ParseBenchConfig(ba.BenchConfigPath)
		if err != nil {
			return nil, nil, fmt.Errorf("bench config %s: %w", ba.BenchConfigPath, err)
		}
	} else {
		bench = configs.DefaultBenchConfig()
	}

	if ba.Endpoint != "" {
		chain.Endpoint = ba.Endpoint
	}

	if ba.MinAccounts > 0 {
		chain.MinAccounts = ba.MinAccounts
	}

	if ok, err := validators.ValidateChainConfig(chain); !ok {
		return nil, nil, err
	}

	return chain, bench, nil
}
