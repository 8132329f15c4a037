package clientinterfaces

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// transferGas is the intrinsic gas of a plain value transfer.
const transferGas = 21000

// Signer signs transfers for a fixed set of keys and tracks their nonces.
// It is not safe for concurrent use.
type Signer struct {
	chainID   *big.Int
	signer    types.Signer
	gasPrice  *big.Int // Suggested by the node, used when the transfer has none
	keys      map[common.Address]*ecdsa.PrivateKey
	nonces    map[common.Address]uint64
	addresses []common.Address
}

// NewSigner fetches the chain id, the suggested gas price and the pending
// nonce of every key.
func NewSigner(ctx context.Context, client *ethclient.Client, keys [][]byte) (*Signer, error) {
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("gas price: %w", err)
	}

	s := &Signer{
		chainID:  chainID,
		signer:   types.NewEIP155Signer(chainID),
		gasPrice: gasPrice,
		keys:     make(map[common.Address]*ecdsa.PrivateKey, len(keys)),
		nonces:   make(map[common.Address]uint64, len(keys)),
	}

	for i, key := range keys {
		priv, err := crypto.ToECDSA(key)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}

		addr := crypto.PubkeyToAddress(priv.PublicKey)
		if _, ok := s.keys[addr]; ok {
			continue
		}

		nonce, err := client.PendingNonceAt(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("nonce of %s: %w", addr, err)
		}

		s.keys[addr] = priv
		s.nonces[addr] = nonce
		s.addresses = append(s.addresses, addr)
	}

	zap.L().Info("Blockchain client contacted and got params",
		zap.String("gasPrice", gasPrice.String()),
		zap.String("chainID", chainID.String()),
		zap.Int("keys", len(s.addresses)))

	return s, nil
}

// Addresses returns the signing accounts in key order.
func (s *Signer) Addresses() []common.Address {
	return s.addresses
}

// Nonce returns the next nonce of an account.
func (s *Signer) Nonce(addr common.Address) uint64 {
	return s.nonces[addr]
}

// SignTransfer creates and signs a transfer with the next nonce of from.
// The nonce is only consumed by Commit.
func (s *Signer) SignTransfer(from, to common.Address, transfer Transfer) (*types.Transaction, error) {
	priv, ok := s.keys[from]
	if !ok {
		return nil, fmt.Errorf("no key for account %s", from)
	}

	gas := transfer.Gas
	if gas == 0 {
		gas = transferGas
	}

	gasPrice := transfer.GasPrice
	if gasPrice == nil {
		gasPrice = s.gasPrice
	}

	value := transfer.Value
	if value == nil {
		value = new(big.Int)
	}

	tx := types.NewTransaction(s.nonces[from], to, value, gas, gasPrice, nil)

	return types.SignTx(tx, s.signer, priv)
}

// Commit consumes the nonce used by the last transfer signed for from.
func (s *Signer) Commit(from common.Address) {
	s.nonces[from]++
}
