package configs

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
)

// ChainKey is a funded account whose private key is known to the benchmark.
// Transactions from these accounts are signed locally.
type ChainKey struct {
	PrivateKey []byte `yaml:"private"` // Private key information
	Address    string `yaml:"address"` // Address that it is from
}

// Naive check if the prefixed PrivateKey has "0x" leading.
func checkPrefix(keyHex string) bool {
	return len(keyHex) >= 2 && // Length must be 0x or more
		keyHex[0] == '0' && // Starts with 0
		(keyHex[1] == 'x' || keyHex[1] == 'X') // followed by an x or X
}

func (ck *ChainKey) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var c struct {
		PrivateKey string `yaml:"private"`
		Address    string `yaml:"address"`
	}
	err := unmarshal(&c)

	if err != nil {
		return err
	}

	if len(c.PrivateKey) == 0 {
		return errors.New("empty PrivateKey passed to unmarshal")
	}

	keyHex := c.PrivateKey
	if checkPrefix(keyHex) {
		keyHex = keyHex[2:]
	}

	privateKeyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return fmt.Errorf("private key for %q: %w", c.Address, err)
	}

	ck.PrivateKey = privateKeyBytes
	ck.Address = c.Address

	return nil
}

// Unit conversions for the transfer parameters, expressed the way a user
// types them in the configuration (ether and gwei).
var (
	weiPerEther = big.NewFloat(1e18)
	weiPerGwei  = big.NewFloat(1e9)
)

func toWei(amount float64, unit *big.Float) *big.Int {
	wei, _ := new(big.Float).Mul(big.NewFloat(amount), unit).Int(nil)
	return wei
}

// ValueWei returns the transfer value in wei.
func (ti *TransferInfo) ValueWei() *big.Int {
	return toWei(ti.Value, weiPerEther)
}

// GasPriceWei returns the gas price in wei.
func (ti *TransferInfo) GasPriceWei() *big.Int {
	return toWei(ti.GasPrice, weiPerGwei)
}
