package validators

import (
	"errors"
	"fmt"
	"ledgerbench/core/configs"
	"net/url"

	"github.com/ethereum/go-ethereum/common"
)

// ValidateChainConfig checks the endpoint and the optional signing keys.
func ValidateChainConfig(c *configs.ChainConfig) (bool, error) {
	if len(c.Endpoint) == 0 {
		return false, errors.New("missing endpoint")
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return false, fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}

	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return false, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}

	if c.MinAccounts < 1 {
		return false, fmt.Errorf("min_accounts %d must be at least 1", c.MinAccounts)
	}

	for i, k := range c.Keys {
		if len(k.PrivateKey) != 32 {
			return false, fmt.Errorf("key %d has %d private key bytes, expected 32", i, len(k.PrivateKey))
		}

		if len(k.Address) > 0 && !common.IsHexAddress(k.Address) {
			return false, fmt.Errorf("key %d has invalid address %q", i, k.Address)
		}
	}

	return true, nil
}
