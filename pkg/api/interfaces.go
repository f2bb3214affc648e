package api

import (
	"context"
	"math/big"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/db/models"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/gasprice"
)

// GasPriceSource is one side's cached gas price, satisfied by *gasprice.Monitor
type GasPriceSource interface {
	Side() gasprice.Side
	Snapshot() gasprice.State
	GasPriceFor(opt gasprice.Option) *big.Int
}

// HistoryReader reads recorded snapshots, satisfied by *history.Store
type HistoryReader interface {
	Recent(ctx context.Context, side gasprice.Side, limit int) ([]models.GasPriceSnapshot, error)
}
