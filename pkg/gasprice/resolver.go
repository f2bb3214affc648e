package gasprice

import (
	"context"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/oracle"
)

// SpeedTableFetcher fetches the current oracle speed table
type SpeedTableFetcher interface {
	FetchSpeedTable(ctx context.Context) (*oracle.SpeedTable, error)
}

// ContractGasPricer reads the default gas price stored in the bridge contract
type ContractGasPricer interface {
	GasPrice(ctx context.Context) (*big.Int, error)
}

// ResolverConfig holds the collaborators and settings for a Resolver
type ResolverConfig struct {
	Side Side
	// Oracle is optional; without it the contract is queried directly
	Oracle SpeedTableFetcher
	// Contract is the fallback source
	Contract ContractGasPricer
	// Speed is the tier used from the oracle table
	Speed      oracle.Speed
	Normalizer Normalizer
	Logger     *logrus.Logger
}

// Resolver picks one authoritative gas price per cycle: oracle first, then
// the bridge contract.
type Resolver struct {
	side       Side
	oracle     SpeedTableFetcher
	contract   ContractGasPricer
	speed      oracle.Speed
	normalizer Normalizer
	logger     *logrus.Logger
}

// NewResolver creates a Resolver from config
func NewResolver(config ResolverConfig) (*Resolver, error) {
	if config.Contract == nil && config.Oracle == nil {
		return nil, fmt.Errorf("resolver for %s side needs an oracle or a contract", config.Side)
	}
	if config.Speed == "" {
		config.Speed = oracle.SpeedStandard
	}
	if _, ok := oracle.ParseSpeed(string(config.Speed)); !ok {
		return nil, fmt.Errorf("unknown speed type %q", config.Speed)
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}

	return &Resolver{
		side:       config.Side,
		oracle:     config.Oracle,
		contract:   config.Contract,
		speed:      config.Speed,
		normalizer: config.Normalizer,
		logger:     config.Logger,
	}, nil
}

// FetchGasPrice resolves the gas price for this cycle. It never returns an
// error: every failure is logged and reflected as nil fields in the Result.
func (r *Resolver) FetchGasPrice(ctx context.Context) Result {
	log := r.logger.WithField("chain_side", r.side)

	if r.oracle != nil {
		price, table, err := r.fromOracle(ctx)
		if err == nil {
			log.WithFields(logrus.Fields{
				"source":    SourceOracle,
				"speed":     r.speed,
				"gas_price": price.String(),
			}).Debug("Gas price resolved from oracle")
			return Result{GasPrice: price, Speeds: table, Source: SourceOracle}
		}
		log.WithFields(logrus.Fields{
			"stage": "oracle",
			"error": err,
		}).Error("Gas price oracle is not available")
	}

	if r.contract == nil {
		return Result{Source: SourceNone}
	}

	price, err := r.contract.GasPrice(ctx)
	if err != nil {
		log.WithFields(logrus.Fields{
			"stage": "contract",
			"error": err,
		}).Error("Failed to fetch gas price from the bridge contract")
		return Result{Source: SourceNone}
	}
	if price == nil {
		log.WithField("stage", "contract").Error("Bridge contract returned no gas price")
		return Result{Source: SourceNone}
	}

	log.WithFields(logrus.Fields{
		"source":    SourceContract,
		"gas_price": price.String(),
	}).Debug("Gas price resolved from bridge contract")

	return Result{GasPrice: price, Source: SourceContract}
}

func (r *Resolver) fromOracle(ctx context.Context) (*big.Int, *oracle.SpeedTable, error) {
	table, err := r.oracle.FetchSpeedTable(ctx)
	if err != nil {
		return nil, nil, err
	}
	if table == nil {
		return nil, nil, oracle.NewOracleError(oracle.ErrCodeParseFailure, "oracle returned no table", nil, string(r.side))
	}

	value, ok := table.Tier(r.speed)
	if !ok {
		return nil, nil, oracle.NewOracleError(
			oracle.ErrCodeParseFailure,
			"default speed missing from oracle response",
			fmt.Errorf("speed %q", r.speed),
			string(r.side),
		)
	}

	if !table.Health {
		r.logger.WithFields(logrus.Fields{
			"chain_side":   r.side,
			"block_number": table.BlockNumber,
		}).Warn("Gas price oracle reports unhealthy data")
	}

	return r.normalizer.NormalizeGasPrice(value), table, nil
}
