package appconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/bridge"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/gasprice"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/oracle"
)

// ErrSideNotConfigured means neither an oracle nor a bridge contract is set for a side
var ErrSideNotConfigured = errors.New("no gas price source configured")

// DialFunc connects to a side's bridge contract
type DialFunc func(ctx context.Context, config *bridge.Config, log *logrus.Logger) (*bridge.Contract, error)

// SideConfig holds what ConfigureSide needs beyond the environment
type SideConfig struct {
	Side      gasprice.Side
	Recorders []gasprice.Recorder
	Observer  gasprice.Observer
	Logger    *logrus.Logger
	// Dial defaults to bridge.Dial
	Dial DialFunc
}

// SideMonitor is a configured monitor plus the resources it holds
type SideMonitor struct {
	Monitor  *gasprice.Monitor
	contract *bridge.Contract
}

// Close releases the bridge RPC connection
func (s *SideMonitor) Close() {
	if s.contract != nil {
		s.contract.Close()
	}
}

// ConfigureSide builds one side's oracle client, bridge contract and monitor
func ConfigureSide(ctx context.Context, config SideConfig) (*SideMonitor, error) {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	if config.Dial == nil {
		config.Dial = bridge.Dial
	}
	side := string(config.Side)

	sideCfg, err := gasprice.NewSideConfig(config.Side, config.Logger)
	if err != nil {
		return nil, err
	}

	resolverCfg := gasprice.ResolverConfig{
		Side:       config.Side,
		Speed:      sideCfg.Speed,
		Normalizer: sideCfg.Normalizer(),
		Logger:     config.Logger,
	}

	oracleCfg := oracle.NewConfig(side, config.Logger)
	if oracleCfg.Enabled() {
		client, err := oracle.NewClient(oracleCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s gas price oracle client: %w", side, err)
		}
		resolverCfg.Oracle = client
	}

	out := &SideMonitor{}
	bridgeCfg := bridge.NewConfig(side)
	if bridgeCfg.RPCURL != "" || bridgeCfg.Address != "" {
		contract, err := config.Dial(ctx, bridgeCfg, config.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to bind %s bridge contract: %w", side, err)
		}
		resolverCfg.Contract = contract
		out.contract = contract
	}

	if resolverCfg.Oracle == nil && resolverCfg.Contract == nil {
		return nil, fmt.Errorf("%s side: %w", side, ErrSideNotConfigured)
	}

	resolver, err := gasprice.NewResolver(resolverCfg)
	if err != nil {
		out.Close()
		return nil, err
	}

	out.Monitor, err = gasprice.NewMonitor(gasprice.MonitorConfig{
		Side:       config.Side,
		Resolver:   resolver,
		Normalizer: sideCfg.Normalizer(),
		Interval:   sideCfg.Interval,
		Recorders:  config.Recorders,
		Observer:   config.Observer,
		Logger:     config.Logger,
	})
	if err != nil {
		out.Close()
		return nil, err
	}

	config.Logger.WithFields(logrus.Fields{
		"chain_side": side,
		"oracle":     oracleCfg.Enabled(),
		"contract":   out.contract != nil,
		"interval":   sideCfg.Interval.String(),
		"speed_type": sideCfg.Speed,
		"factor":     sideCfg.Factor.String(),
	}).Info("Configured gas price monitor")

	return out, nil
}
