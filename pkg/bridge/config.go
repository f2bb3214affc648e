package bridge

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// DefaultMaxRetries is how many extra dial attempts are made
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the pause between dial attempts
	DefaultRetryDelay = time.Second
)

// Config holds the connection parameters for one side's bridge contract.
// Environment variables (PREFIX is HOME or FOREIGN):
//   - PREFIX_RPC_URL: JSON-RPC endpoint of the chain
//   - PREFIX_BRIDGE_ADDRESS: address of the bridge contract
type Config struct {
	// Side identifies the chain side for logs and errors
	Side string

	// RPCURL is the HTTP(S) or WS endpoint for connecting to the chain
	RPCURL string

	// Address is the bridge contract address
	Address string

	// MaxRetries specifies how many times to retry a failed dial
	MaxRetries int

	// RetryDelay is the duration to wait between dial attempts
	RetryDelay time.Duration
}

// NewConfig reads the bridge settings for side from the environment
func NewConfig(side string) *Config {
	prefix := strings.ToUpper(side)
	return &Config{
		Side:       side,
		RPCURL:     os.Getenv(prefix + "_RPC_URL"),
		Address:    os.Getenv(prefix + "_BRIDGE_ADDRESS"),
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultRetryDelay,
	}
}

// Validate checks the RPC URL and contract address
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("bridge: RPC URL is required for %s side", c.Side)
	}
	if !common.IsHexAddress(c.Address) {
		return NewContractError(ErrCodeInvalidAddress, "invalid bridge address", fmt.Errorf("%q", c.Address), c.Side)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("bridge: max retries cannot be negative")
	}
	return nil
}
