// Package metrics exports the gas price monitors' cycle outcomes to prometheus.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/gasprice"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/oracle"
)

// Namespace prefixes every metric name
const Namespace = "bridge_gasprice"

// Metrics implements gasprice.Observer
type Metrics struct {
	cycles        *prometheus.CounterVec
	gasPrice      *prometheus.GaugeVec
	oracleTiers   *prometheus.GaugeVec
	cycleDuration *prometheus.HistogramVec
	lastUpdate    *prometheus.GaugeVec
}

// New creates the collectors and registers them on registerer
func New(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cycles_total",
			Help:      "Number of completed refresh cycles by chain side and price source",
		}, []string{"side", "source"}),
		gasPrice: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "gas_price_gwei",
			Help:      "Cached gas price in gwei, absent while unavailable",
		}, []string{"side"}),
		oracleTiers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "oracle_speed_gwei",
			Help:      "Last oracle reading per speed tier in gwei",
		}, []string{"side", "speed"}),
		cycleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Time taken to resolve the gas price in one cycle",
			Buckets:   prometheus.DefBuckets,
		}, []string{"side"}),
		lastUpdate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_cycle_timestamp_seconds",
			Help:      "Unix time of the last completed cycle",
		}, []string{"side"}),
	}

	collectors := []prometheus.Collector{
		m.cycles,
		m.gasPrice,
		m.oracleTiers,
		m.cycleDuration,
		m.lastUpdate,
	}
	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register gas price metrics due to %w", err)
		}
	}
	return m, nil
}

// ObserveCycle implements gasprice.Observer
func (m *Metrics) ObserveCycle(side gasprice.Side, result gasprice.Result, elapsed time.Duration) {
	s := string(side)
	m.cycles.WithLabelValues(s, string(result.Source)).Inc()
	m.cycleDuration.WithLabelValues(s).Observe(elapsed.Seconds())
	m.lastUpdate.WithLabelValues(s).SetToCurrentTime()

	if result.GasPrice == nil {
		m.gasPrice.DeleteLabelValues(s)
	} else {
		m.gasPrice.WithLabelValues(s).Set(gasprice.WeiToGwei(result.GasPrice).InexactFloat64())
	}

	for _, speed := range oracle.AllSpeeds {
		tier, ok := result.Speeds.Tier(speed)
		if !ok {
			m.oracleTiers.DeleteLabelValues(s, string(speed))
			continue
		}
		m.oracleTiers.WithLabelValues(s, string(speed)).Set(tier.InexactFloat64())
	}
}
