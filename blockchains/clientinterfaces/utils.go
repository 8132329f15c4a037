package clientinterfaces

import (
	"context"
	"ledgerbench/core/configs"
)

// Connect dials the node of the chain configuration and prepares transfers
// as the benchmark configuration describes them.
func Connect(ctx context.Context, chain *configs.ChainConfig, bench *configs.BenchConfig) (*EthereumInterface, error) {
	return Dial(ctx, chain.Endpoint, OptionsFromConfig(chain, bench))
}

// OptionsFromConfig converts configuration files into connection options.
func OptionsFromConfig(chain *configs.ChainConfig, bench *configs.BenchConfig) Options {
	keys := make([][]byte, 0, len(chain.Keys))
	for _, k := range chain.Keys {
		keys = append(keys, k.PrivateKey)
	}

	return Options{
		MinAccounts: chain.MinAccounts,
		Keys:        keys,
		Transfer: Transfer{
			Value:    bench.Transfer.ValueWei(),
			Gas:      bench.Transfer.Gas,
			GasPrice: bench.Transfer.GasPriceWei(),
		},
		ReceiptPoll: bench.ReceiptPoll,
	}
}
