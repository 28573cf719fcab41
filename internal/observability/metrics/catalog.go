package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// CatalogMetrics counts catalog mutations, list queries and asset operations.
// A nil *CatalogMetrics is valid and records nothing.
type CatalogMetrics struct {
	mutations *prometheus.CounterVec
	queryRuns prometheus.Counter
	assetOps  *prometheus.CounterVec
}

func NewCatalogMetrics(reg prometheus.Registerer) (*CatalogMetrics, error) {
	m := &CatalogMetrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "catalog",
			Name:      "mutations_total",
			Help:      "Catalog store mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		queryRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "query_runs_total",
			Help:      "Executions of the product list query pipeline.",
		}),
		assetOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "asset_operations_total",
			Help:      "Product photo asset operations by operation and outcome.",
		}, []string{"op", "outcome"}),
	}

	for _, c := range []prometheus.Collector{m.mutations, m.queryRuns, m.assetOps} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveMutation records a store mutation; reason is empty on success.
func (m *CatalogMetrics) ObserveMutation(op, reason string) {
	if m == nil {
		return
	}
	outcome := reason
	if outcome == "" {
		outcome = OutcomeOK
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
}

func (m *CatalogMetrics) ObserveQuery() {
	if m == nil {
		return
	}
	m.queryRuns.Inc()
}

func (m *CatalogMetrics) ObserveAsset(op string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.assetOps.WithLabelValues(op, outcome).Inc()
}

// NewRegistry returns the application registry with runtime collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideCatalogMetrics(reg *prometheus.Registry) (*CatalogMetrics, error) {
	return NewCatalogMetrics(reg)
}

var Module = fx.Module("metrics",
	fx.Provide(NewRegistry),
	fx.Provide(provideCatalogMetrics),
	fx.Provide(provideHTTPMetrics),
)
