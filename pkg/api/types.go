package api

import (
	"math/big"
	"time"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/db/models"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/gasprice"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/oracle"
)

// SnapshotResponse is the JSON form of a side's cached state.
// Wei amounts are decimal strings so they survive JSON number precision.
type SnapshotResponse struct {
	Side         gasprice.Side      `json:"side"`
	GasPrice     *string            `json:"gas_price"`
	GasPriceGwei *string            `json:"gas_price_gwei"`
	Source       gasprice.Source    `json:"source"`
	Speeds       *oracle.SpeedTable `json:"speeds"`
	UpdatedAt    *time.Time         `json:"updated_at"`
}

// EffectiveResponse is the gas price after option processing
type EffectiveResponse struct {
	Side     gasprice.Side `json:"side"`
	Type     string        `json:"type,omitempty"`
	Value    string        `json:"value,omitempty"`
	GasPrice string        `json:"gas_price"`
}

// HistoryResponse lists recorded snapshots, newest first
type HistoryResponse struct {
	Side      gasprice.Side             `json:"side"`
	Snapshots []models.GasPriceSnapshot `json:"snapshots"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func newSnapshotResponse(side gasprice.Side, state gasprice.State) SnapshotResponse {
	resp := SnapshotResponse{
		Side:   side,
		Source: state.Source,
		Speeds: state.Speeds,
	}
	if state.GasPrice != nil {
		wei := state.GasPrice.String()
		gwei := gasprice.WeiToGwei(state.GasPrice).String()
		resp.GasPrice = &wei
		resp.GasPriceGwei = &gwei
	}
	if !state.UpdatedAt.IsZero() {
		at := state.UpdatedAt.UTC()
		resp.UpdatedAt = &at
	}
	return resp
}

func weiString(v *big.Int) string {
	if v == nil {
		return ""
	}
	return v.String()
}
