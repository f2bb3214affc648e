package gasprice

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/params"
	"github.com/shopspring/decimal"
)

// Default gas price limits, in gwei
const (
	DefaultMinGasPrice = 1
	DefaultMaxGasPrice = 250
)

var gweiFactor = decimal.NewFromInt(params.GWei)

// Boundaries is the inclusive gwei range gas prices are clamped into
type Boundaries struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// DefaultBoundaries returns the [1, 250] gwei range
func DefaultBoundaries() Boundaries {
	return Boundaries{
		Min: decimal.NewFromInt(DefaultMinGasPrice),
		Max: decimal.NewFromInt(DefaultMaxGasPrice),
	}
}

// NewBoundaries builds a range and checks 0 <= min <= max
func NewBoundaries(min, max decimal.Decimal) (Boundaries, error) {
	if min.IsNegative() {
		return Boundaries{}, fmt.Errorf("minimum gas price cannot be negative, got %s", min)
	}
	if min.GreaterThan(max) {
		return Boundaries{}, fmt.Errorf("minimum gas price %s exceeds maximum %s", min, max)
	}
	return Boundaries{Min: min, Max: max}, nil
}

// GasPriceWithinLimits clamps value into [Min, Max]
func (b Boundaries) GasPriceWithinLimits(value decimal.Decimal) decimal.Decimal {
	if value.LessThan(b.Min) {
		return b.Min
	}
	if value.GreaterThan(b.Max) {
		return b.Max
	}
	return value
}

// Normalizer turns oracle readings into wei for one chain side
type Normalizer struct {
	// Factor scales the oracle value before clamping
	Factor decimal.Decimal
	// Bounds clamps the scaled value, in gwei
	Bounds Boundaries
}

// NormalizeGasPrice scales oracleValue by the factor, clamps the product in
// gwei and converts it to wei.
func (n Normalizer) NormalizeGasPrice(oracleValue decimal.Decimal) *big.Int {
	return NormalizeGasPrice(oracleValue, n.Factor, n.Bounds)
}

// NormalizeGasPrice scales oracleValue (gwei) by factor, clamps the product
// into bounds and returns it in wei. Clamping happens before conversion so the
// bounds apply to the gwei magnitude.
func NormalizeGasPrice(oracleValue, factor decimal.Decimal, bounds Boundaries) *big.Int {
	return GweiToWei(bounds.GasPriceWithinLimits(oracleValue.Mul(factor)))
}

// GweiToWei converts a gwei amount to wei, rounding half away from zero
func GweiToWei(gwei decimal.Decimal) *big.Int {
	return gwei.Mul(gweiFactor).Round(0).BigInt()
}

// WeiToGwei converts a wei amount to gwei
func WeiToGwei(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, 0).Div(gweiFactor)
}
