package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		routerSelections,
		ledgerLockWaitMs,
	)
}

var (
	routerSelections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "router_selections_total",
			Help: "Provider slot claims, split by sticky (session reuse) vs fresh selection.",
		},
		[]string{"provider", "sticky"},
	)

	ledgerLockWaitMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ledger_lock_wait_ms",
			Help:    "Time spent acquiring the provider ledger lock in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		},
	)
)

func RouterSelected(provider string, sticky bool) {
	routerSelections.WithLabelValues(norm(provider), strconv.FormatBool(sticky)).Inc()
}

func ObserveLedgerLockWait(d time.Duration) {
	ledgerLockWaitMs.Observe(float64(d.Milliseconds()))
}
