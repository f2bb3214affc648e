package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/bridge-gasprice/internal/appconfig"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/api"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/db"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/gasprice"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/history"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/logging"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/metrics"
)

func main() {
	bootLog := logrus.New()
	appconfig.LoadEnv(bootLog)

	cfg := appconfig.Load(bootLog)
	log := logging.NewLogger(cfg.LogLevel, cfg.JSONLogs)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer, err := metrics.New(registry)
	if err != nil {
		log.WithError(err).Fatal("Failed to register metrics")
	}

	var (
		recorders []gasprice.Recorder
		store     *history.Store
	)
	if cfg.DB.Enabled() {
		conn, err := db.SetupDatabase(cfg.DB, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to set up history database")
		}
		defer db.Close(conn)

		store, err = history.NewStore(conn, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to create history store")
		}
		recorders = append(recorders, store)
	} else {
		log.Info("DB_HOST not set, gas price history disabled")
	}

	var sources []api.GasPriceSource
	var monitors []*gasprice.Monitor
	for _, side := range cfg.Sides {
		sm, err := appconfig.ConfigureSide(ctx, appconfig.SideConfig{
			Side:      side,
			Recorders: recorders,
			Observer:  observer,
			Logger:    log,
		})
		if errors.Is(err, appconfig.ErrSideNotConfigured) {
			log.WithField("chain_side", side).Warn("No oracle or bridge contract configured, side disabled")
			continue
		}
		if err != nil {
			log.WithError(err).WithField("chain_side", side).Fatal("Failed to configure gas price monitor")
		}
		defer sm.Close()

		monitors = append(monitors, sm.Monitor)
		sources = append(sources, sm.Monitor)
	}
	if len(monitors) == 0 {
		log.Fatal("No chain side configured")
	}

	for _, m := range monitors {
		if err := m.Start(ctx); err != nil {
			log.WithError(err).WithField("chain_side", m.Side()).Fatal("Failed to start gas price monitor")
		}
	}

	var pruner *history.Pruner
	if store != nil {
		pruner = history.NewPruner(store, cfg.HistoryRetention, cfg.PruneInterval, log)
		pruner.Start(ctx)
	}

	apiConfig := api.ServerConfig{
		Addr:     cfg.APIAddr,
		Sources:  sources,
		Gatherer: registry,
		Logger:   log,
	}
	if store != nil {
		apiConfig.History = store
	}
	server, err := api.NewServer(apiConfig)
	if err != nil {
		log.WithError(err).Fatal("Failed to create query server")
	}
	if err := server.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start query server")
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("Query server did not shut down cleanly")
	}

	cancel()
	if pruner != nil {
		pruner.Stop()
	}
	for _, m := range monitors {
		m.Stop()
	}

	log.Info("Gas price daemon shutdown complete")
}
