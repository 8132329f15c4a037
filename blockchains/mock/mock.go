// Package mock provides an in-process Ethereum JSON-RPC node. It answers the
// calls the benchmark makes with instantly mined transactions, optionally
// delaying receipts and rejecting chosen submissions, so that measurements
// can be exercised without a real network.
package mock

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
)

// ChainID of the mock network, the default of a Ganache instance.
const ChainID = 1337

// GasPrice suggested by the mock node, in wei.
const GasPrice = 20000000000

// Node is the state of the mock chain.
type Node struct {
	lock         sync.Mutex
	server       *rpc.Server
	accounts     []common.Address
	nonces       map[common.Address]uint64
	receipts     map[common.Hash]*types.Receipt
	waits        map[common.Hash]int
	sendHook     func(index int) error
	receiptDelay int
	sends        int
	accepted     int
	queries      int
	lastValue    *big.Int
	lastGasPrice *big.Int
	block        int64
}

// NewNode starts a mock node exposing the given number of managed accounts.
func NewNode(accounts int) *Node {
	n := &Node{
		server:   rpc.NewServer(),
		nonces:   make(map[common.Address]uint64),
		receipts: make(map[common.Hash]*types.Receipt),
		waits:    make(map[common.Hash]int),
	}

	for i := 0; i < accounts; i++ {
		n.accounts = append(n.accounts, common.BigToAddress(big.NewInt(int64(i+1))))
	}

	// Registration only fails on services without methods.
	if err := n.server.RegisterName("eth", &ethService{n}); err != nil {
		panic(err)
	}
	if err := n.server.RegisterName("net", &netService{}); err != nil {
		panic(err)
	}

	return n
}

// Server returns the JSON-RPC server, it can be mounted as an HTTP handler.
func (n *Node) Server() *rpc.Server {
	return n.server
}

// Client returns a new in-process client of the node.
func (n *Node) Client() *rpc.Client {
	return rpc.DialInProc(n.server)
}

// Close stops the server.
func (n *Node) Close() {
	n.server.Stop()
}

// SetReceiptDelay makes every receipt query of a new transaction return
// nothing the given number of times before the transaction is mined.
func (n *Node) SetReceiptDelay(queries int) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.receiptDelay = queries
}

// SetSendHook is called with the index of every submission, counting from
// 0. A non-nil error rejects the submission.
func (n *Node) SetSendHook(hook func(index int) error) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.sendHook = hook
}

// Sent returns the number of submissions received, rejected ones included.
func (n *Node) Sent() int {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.sends
}

// Accepted returns the number of transactions the node accepted.
func (n *Node) Accepted() int {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.accepted
}

// ReceiptQueries returns the number of eth_getTransactionReceipt calls.
func (n *Node) ReceiptQueries() int {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.queries
}

// Nonce returns the next nonce of an account.
func (n *Node) Nonce(addr common.Address) uint64 {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.nonces[addr]
}

// LastTransfer returns the value and gas price of the last accepted transfer.
func (n *Node) LastTransfer() (value, gasPrice *big.Int) {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.lastValue, n.lastGasPrice
}

// submit must be called with the lock held.
func (n *Node) submit() error {
	index := n.sends
	n.sends++

	if n.sendHook != nil {
		return n.sendHook(index)
	}

	return nil
}

// accept must be called with the lock held.
func (n *Node) accept(hash common.Hash, from common.Address, value, gasPrice *big.Int) {
	n.nonces[from]++
	n.accepted++
	n.block++
	n.lastValue = value
	n.lastGasPrice = gasPrice

	n.receipts[hash] = &types.Receipt{
		Status:            types.ReceiptStatusSuccessful,
		CumulativeGasUsed: 21000,
		GasUsed:           21000,
		TxHash:            hash,
		Logs:              []*types.Log{},
		BlockNumber:       big.NewInt(n.block),
	}
	n.waits[hash] = n.receiptDelay
}

// SendTxArgs are the arguments of eth_sendTransaction.
type SendTxArgs struct {
	From     common.Address  `json:"from"`
	To       *common.Address `json:"to"`
	Gas      *hexutil.Uint64 `json:"gas"`
	GasPrice *hexutil.Big    `json:"gasPrice"`
	Value    *hexutil.Big    `json:"value"`
}

type ethService struct {
	node *Node
}

func (s *ethService) Accounts() []common.Address {
	s.node.lock.Lock()
	defer s.node.lock.Unlock()
	return append([]common.Address{}, s.node.accounts...)
}

func (s *ethService) ChainId() *hexutil.Big {
	return (*hexutil.Big)(big.NewInt(ChainID))
}

func (s *ethService) GasPrice() *hexutil.Big {
	return (*hexutil.Big)(big.NewInt(GasPrice))
}

func (s *ethService) GetTransactionCount(addr common.Address, block string) hexutil.Uint64 {
	return hexutil.Uint64(s.node.Nonce(addr))
}

func (s *ethService) SendTransaction(args SendTxArgs) (common.Hash, error) {
	n := s.node

	n.lock.Lock()
	defer n.lock.Unlock()

	if err := n.submit(); err != nil {
		return common.Hash{}, err
	}

	managed := false
	for _, a := range n.accounts {
		if a == args.From {
			managed = true
			break
		}
	}
	if !managed {
		return common.Hash{}, fmt.Errorf("sender account %s not recognized", args.From)
	}

	if args.To == nil {
		return common.Hash{}, errors.New("contract creation is not supported")
	}

	value := new(big.Int)
	if args.Value != nil {
		value = args.Value.ToInt()
	}

	var gasPrice *big.Int
	if args.GasPrice != nil {
		gasPrice = args.GasPrice.ToInt()
	}

	hash := crypto.Keccak256Hash([]byte(fmt.Sprintf("%s/%d", args.From.Hex(), n.nonces[args.From])))
	n.accept(hash, args.From, value, gasPrice)

	return hash, nil
}

func (s *ethService) SendRawTransaction(input hexutil.Bytes) (common.Hash, error) {
	n := s.node

	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(input); err != nil {
		return common.Hash{}, err
	}

	from, err := types.Sender(types.NewEIP155Signer(big.NewInt(ChainID)), tx)
	if err != nil {
		return common.Hash{}, err
	}

	n.lock.Lock()
	defer n.lock.Unlock()

	if err := n.submit(); err != nil {
		return common.Hash{}, err
	}

	if tx.Nonce() != n.nonces[from] {
		return common.Hash{}, fmt.Errorf("nonce %d of %s, expected %d", tx.Nonce(), from, n.nonces[from])
	}

	n.accept(tx.Hash(), from, tx.Value(), tx.GasPrice())

	return tx.Hash(), nil
}

func (s *ethService) GetTransactionReceipt(hash common.Hash) (*types.Receipt, error) {
	n := s.node

	n.lock.Lock()
	defer n.lock.Unlock()

	n.queries++

	receipt, ok := n.receipts[hash]
	if !ok {
		return nil, nil
	}

	if n.waits[hash] > 0 {
		n.waits[hash]--
		return nil, nil
	}

	return receipt, nil
}

type netService struct{}

func (s *netService) Version() string {
	return fmt.Sprint(ChainID)
}
