package keeper

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts keeper operations. Counters are created unregistered so
// multiple keepers can coexist in tests; call RegisterMetrics to expose them.
type Metrics struct {
	PoolsInitialized prometheus.Counter
	PositionUpdates  prometheus.Counter
	Swaps            prometheus.Counter
	LocksCommitted   prometheus.Counter
	LocksReverted    prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		PoolsInitialized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "amm",
			Name:      "pools_initialized_total",
			Help:      "Number of pools initialized.",
		}),
		PositionUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "amm",
			Name:      "position_updates_total",
			Help:      "Number of position liquidity updates.",
		}),
		Swaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "amm",
			Name:      "swaps_total",
			Help:      "Number of executed swaps.",
		}),
		LocksCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "amm",
			Name:      "locks_committed_total",
			Help:      "Number of flash accounting sessions committed.",
		}),
		LocksReverted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "amm",
			Name:      "locks_reverted_total",
			Help:      "Number of flash accounting sessions rolled back.",
		}),
	}
}

// RegisterMetrics registers the keeper's counters with reg.
func (k *Keeper) RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		k.metrics.PoolsInitialized,
		k.metrics.PositionUpdates,
		k.metrics.Swaps,
		k.metrics.LocksCommitted,
		k.metrics.LocksReverted,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
