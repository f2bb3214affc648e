package bridge

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

// gasPriceABI is the slice of the bridge ABI needed to read the default gas price.
const gasPriceABI = `[
	{
		"constant": true,
		"inputs": [],
		"name": "gasPrice",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// Contract is a read-only handle on a bridge contract
type Contract struct {
	side     string
	address  common.Address
	contract *bind.BoundContract
	client   *ethclient.Client
	log      *logrus.Logger
}

// NewContract binds the bridge at address using caller for read calls.
func NewContract(side string, address common.Address, caller bind.ContractCaller, log *logrus.Logger) (*Contract, error) {
	if log == nil {
		log = logrus.New()
	}

	parsedABI, err := abi.JSON(strings.NewReader(gasPriceABI))
	if err != nil {
		return nil, NewContractError(ErrCodeInvalidABI, "failed to parse ABI", err, side)
	}

	return &Contract{
		side:     side,
		address:  address,
		contract: bind.NewBoundContract(address, parsedABI, caller, nil, nil),
		log:      log,
	}, nil
}

// Dial connects to the configured RPC endpoint and binds the bridge contract.
func Dial(ctx context.Context, config *Config, log *logrus.Logger) (*Contract, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}

	client, err := dialWithRetry(ctx, config, log)
	if err != nil {
		return nil, NewContractError(ErrCodeRPCError, "failed to connect to chain", err, config.Side)
	}

	c, err := NewContract(config.Side, common.HexToAddress(config.Address), client, log)
	if err != nil {
		client.Close()
		return nil, err
	}
	c.client = client

	return c, nil
}

// GasPrice calls the bridge's gasPrice() getter and returns the value in wei.
func (c *Contract) GasPrice(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "gasPrice")
	if err != nil {
		return nil, NewContractError(ErrCodeContractCallFailure, "gasPrice call failed", err, c.side)
	}

	if len(out) == 0 {
		return nil, NewContractError(ErrCodeContractCallFailure, "no gas price returned", nil, c.side)
	}

	price, ok := out[0].(*big.Int)
	if !ok {
		return nil, NewContractError(ErrCodeContractCallFailure,
			fmt.Sprintf("unexpected return type %T", out[0]), nil, c.side)
	}

	c.log.WithFields(logrus.Fields{
		"chain_side": c.side,
		"bridge":     c.address.Hex(),
		"gas_price":  price.String(),
	}).Debug("Read gas price from bridge contract")

	return price, nil
}

// Address returns the bound bridge address
func (c *Contract) Address() common.Address {
	return c.address
}

// Close releases the RPC connection opened by Dial
func (c *Contract) Close() {
	if c.client != nil {
		c.client.Close()
		c.log.WithField("chain_side", c.side).Debug("Closed chain connection")
	}
}

// dialWithRetry attempts to connect to the chain, retrying failed attempts
// based on the configuration.
func dialWithRetry(ctx context.Context, config *Config, log *logrus.Logger) (*ethclient.Client, error) {
	var client *ethclient.Client
	var err error

	for i := 0; i <= config.MaxRetries; i++ {
		client, err = ethclient.DialContext(ctx, config.RPCURL)
		if err == nil {
			return client, nil
		}

		if i < config.MaxRetries {
			log.WithFields(logrus.Fields{
				"chain_side": config.Side,
				"attempt":    i + 1,
				"error":      err,
			}).Debug("Retrying chain connection")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(config.RetryDelay):
			}
		}
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", config.MaxRetries+1, err)
}
