package clientinterfaces

// This client is based off the examples:
// https://github.com/ethereum/go-ethereum/blob/master/rpc/client_example_test.go

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// DefaultReceiptPoll is used when Options leaves the poll interval unset.
const DefaultReceiptPoll = 50 * time.Millisecond

// Transfer holds the fields shared by every value transfer.
type Transfer struct {
	Value    *big.Int // Value in wei
	Gas      uint64   // Gas limit, omitted from the request when zero
	GasPrice *big.Int // Gas price in wei, omitted from the request when nil
}

// Options configures a connection.
type Options struct {
	MinAccounts int           // Accounts required, the connection fails below
	Keys        [][]byte      // Private keys, transactions are signed locally when present
	Transfer    Transfer      // Transfer sent by SendTransfer
	ReceiptPoll time.Duration // Interval between receipt polls
}

// EthereumInterface is a connection to a single Ethereum JSON-RPC node.
// Without keys, transfers are sent from the node-managed accounts through
// eth_sendTransaction, the way a Ganache test network is normally used.
// With keys, transfers are signed here and sent as raw transactions.
type EthereumInterface struct {
	Endpoint string      // Endpoint the connection was made to
	rpc      *rpc.Client // Raw client for the calls ethclient lacks
	eth      *ethclient.Client
	accounts []common.Address
	signer   *Signer
	transfer Transfer
	poll     time.Duration
}

// sendTxArgs are the arguments of eth_sendTransaction.
type sendTxArgs struct {
	From     common.Address  `json:"from"`
	To       *common.Address `json:"to"`
	Gas      *hexutil.Uint64 `json:"gas,omitempty"`
	GasPrice *hexutil.Big    `json:"gasPrice,omitempty"`
	Value    *hexutil.Big    `json:"value"`
}

// Dial opens a connection to the endpoint and checks it is usable.
func Dial(ctx context.Context, endpoint string, opts Options) (*EthereumInterface, error) {
	zap.L().Debug("dialing node", zap.String("endpoint", endpoint))

	client, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, &ConnectivityError{Endpoint: endpoint, Err: err}
	}

	return NewEthereumInterface(ctx, client, endpoint, opts)
}

// NewEthereumInterface wraps an already dialled client. The node must answer
// a liveness probe and expose at least opts.MinAccounts accounts; on failure
// the client is closed.
func NewEthereumInterface(ctx context.Context, client *rpc.Client, endpoint string, opts Options) (*EthereumInterface, error) {
	e := &EthereumInterface{
		Endpoint: endpoint,
		rpc:      client,
		eth:      ethclient.NewClient(client),
		transfer: opts.Transfer,
		poll:     opts.ReceiptPoll,
	}

	if e.poll <= 0 {
		e.poll = DefaultReceiptPoll
	}

	if e.transfer.Value == nil {
		e.transfer.Value = new(big.Int)
	}

	if err := e.init(ctx, opts); err != nil {
		client.Close()
		return nil, err
	}

	return e, nil
}

func (e *EthereumInterface) init(ctx context.Context, opts Options) error {
	// The HTTP transport does not connect on dial, so ask something
	// every node answers.
	networkID, err := e.eth.NetworkID(ctx)
	if err != nil {
		return &ConnectivityError{Endpoint: e.Endpoint, Err: err}
	}

	if len(opts.Keys) > 0 {
		e.signer, err = NewSigner(ctx, e.eth, opts.Keys)
		if err != nil {
			return err
		}
		e.accounts = e.signer.Addresses()
	} else {
		err = e.rpc.CallContext(ctx, &e.accounts, "eth_accounts")
		if err != nil {
			return fmt.Errorf("eth_accounts: %w", err)
		}
	}

	zap.L().Info("connected to node",
		zap.String("endpoint", e.Endpoint),
		zap.String("networkID", networkID.String()),
		zap.Int("accounts", len(e.accounts)),
		zap.Bool("localSigning", e.signer != nil))

	if len(e.accounts) < opts.MinAccounts {
		return &InsufficientAccountsError{Have: len(e.accounts), Want: opts.MinAccounts}
	}

	return nil
}

// Accounts returns the accounts transfers are sent between.
func (e *EthereumInterface) Accounts() []common.Address {
	return e.accounts
}

// SendTransfer submits a transfer of the configured value from one account
// to another and returns the transaction hash.
func (e *EthereumInterface) SendTransfer(ctx context.Context, from, to common.Address) (common.Hash, error) {
	if e.signer != nil {
		return e.sendSigned(ctx, from, to)
	}

	args := sendTxArgs{
		From:  from,
		To:    &to,
		Value: (*hexutil.Big)(e.transfer.Value),
	}

	if e.transfer.Gas > 0 {
		gas := hexutil.Uint64(e.transfer.Gas)
		args.Gas = &gas
	}

	if e.transfer.GasPrice != nil {
		args.GasPrice = (*hexutil.Big)(e.transfer.GasPrice)
	}

	var hash common.Hash
	err := e.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args)
	if err != nil {
		return common.Hash{}, err
	}

	return hash, nil
}

func (e *EthereumInterface) sendSigned(ctx context.Context, from, to common.Address) (common.Hash, error) {
	tx, err := e.signer.SignTransfer(from, to, e.transfer)
	if err != nil {
		return common.Hash{}, err
	}

	err = e.eth.SendTransaction(ctx, tx)
	if err != nil {
		return common.Hash{}, err
	}

	// Only an accepted transaction consumes the nonce
	e.signer.Commit(from)

	return tx.Hash(), nil
}

// WaitForReceipt polls for the receipt until the transaction is mined.
func (e *EthereumInterface) WaitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	timer := time.NewTimer(e.poll)
	defer timer.Stop()

	for {
		receipt, err := e.eth.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			timer.Reset(e.poll)
		}
	}
}

// TransactionReceipt asks for a receipt once. A transaction that is not
// mined yet gives ethereum.NotFound.
func (e *EthereumInterface) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return e.eth.TransactionReceipt(ctx, hash)
}

// Close the connection to the blockchain node
func (e *EthereumInterface) Close() {
	e.rpc.Close()
}
