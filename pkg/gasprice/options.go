package gasprice

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/oracle"
)

// Option type names accepted by ParseOption
const (
	OptionTypeFixed = "fixed"
	OptionTypeSpeed = "speed"
)

// ErrInvalidOption marks an override that cannot be applied. It never leaves
// the package; invalid overrides degrade to the cached price.
var ErrInvalidOption = errors.New("invalid gas price option")

// Option is a per-call gas price override. It is one of NoOption,
// FixedOption or SpeedOption.
type Option interface {
	isOption()
}

// NoOption uses the cached gas price as is
type NoOption struct{}

// FixedOption forces an explicit price, a base-10 integer already in wei
type FixedOption struct {
	Value string
}

// SpeedOption selects one tier of the cached oracle table
type SpeedOption struct {
	Speed oracle.Speed
}

func (NoOption) isOption()    {}
func (FixedOption) isOption() {}
func (SpeedOption) isOption() {}

// ParseOption builds an Option from a loose type/value descriptor.
// An empty or unknown type yields NoOption.
func ParseOption(typ, value string) Option {
	switch typ {
	case OptionTypeFixed:
		return FixedOption{Value: value}
	case OptionTypeSpeed:
		return SpeedOption{Speed: oracle.Speed(value)}
	default:
		return NoOption{}
	}
}

// Processor applies gas price options against cached state for one side
type Processor struct {
	side       Side
	normalizer Normalizer
	logger     *logrus.Logger
}

// NewProcessor creates an option processor that normalizes tiers with normalizer
func NewProcessor(side Side, normalizer Normalizer, logger *logrus.Logger) *Processor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Processor{
		side:       side,
		normalizer: normalizer,
		logger:     logger,
	}
}

// ProcessGasPriceOptions returns the gas price to use for one operation.
// It performs no I/O. Any override that cannot be honoured falls back to the
// cached price in state.
func (p *Processor) ProcessGasPriceOptions(opt Option, state State) *big.Int {
	price, err := p.apply(opt, state)
	if err != nil {
		p.logger.WithFields(logrus.Fields{
			"chain_side": p.side,
			"option":     fmt.Sprintf("%+v", opt),
			"error":      err,
		}).Debug("Ignoring gas price option, using cached gas price")
		return copyInt(state.GasPrice)
	}
	return price
}

func (p *Processor) apply(opt Option, state State) (*big.Int, error) {
	switch o := opt.(type) {
	case nil, NoOption:
		return copyInt(state.GasPrice), nil
	case FixedOption:
		price, ok := new(big.Int).SetString(o.Value, 10)
		if !ok || price.Sign() < 0 {
			return nil, fmt.Errorf("%w: fixed value %q is not a non-negative integer", ErrInvalidOption, o.Value)
		}
		return price, nil
	case SpeedOption:
		if state.Speeds == nil {
			return nil, fmt.Errorf("%w: no oracle speeds cached", ErrInvalidOption)
		}
		value, ok := state.Speeds.Tier(o.Speed)
		if !ok {
			return nil, fmt.Errorf("%w: speed %q not available", ErrInvalidOption, o.Speed)
		}
		return p.normalizer.NormalizeGasPrice(value), nil
	default:
		return nil, fmt.Errorf("%w: unsupported option %T", ErrInvalidOption, opt)
	}
}

func copyInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
