package clientinterfaces

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// BlockchainInterface is the part of a node connection the benchmark times.
// Every call blocks until the node answers or the context ends.
type BlockchainInterface interface {
	// Accounts available to send from, fixed when the connection is made.
	Accounts() []common.Address

	// Submit a value transfer and return its hash without waiting for it to
	// be mined.
	SendTransfer(ctx context.Context, from, to common.Address) (common.Hash, error)

	// Block until the receipt of the given transaction is available.
	WaitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)

	// Ask once for the receipt of the given transaction.
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)

	// Close the connection to the blockchain node
	Close()
}
