// Package metrics exposes the engine's Prometheus collectors on a private
// registry. A nil *Recorder is valid and records nothing.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "gophconcierge"

// Result labels for operations_total.
const (
	ResultOK       = "ok"
	ResultConflict = "conflict"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

type Recorder struct {
	registry *prometheus.Registry

	operations      *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	prunedClaims    prometheus.Counter
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Store operations by store, operation and result.",
		}, []string{"store", "op", "result"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Failed reads and writes against the keyed store.",
		}, []string{"op"}),
		prunedClaims: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pruned_claims_total",
			Help:      "Expired, never redeemed claims dropped at load time.",
		}),
	}
	r.registry.MustRegister(r.operations, r.persistFailures, r.prunedClaims)
	return r
}

func (r *Recorder) Operation(store, op, result string) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(store, op, result).Inc()
}

func (r *Recorder) PersistenceFailure(op string) {
	if r == nil {
		return
	}
	r.persistFailures.WithLabelValues(op).Inc()
}

func (r *Recorder) PrunedClaims(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.prunedClaims.Add(float64(n))
}

// Registry returns the private registry, e.g. for promhttp.HandlerFor.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// WriteText dumps every collected family in the Prometheus text format.
func (r *Recorder) WriteText(w io.Writer) error {
	if r == nil {
		return nil
	}
	families, err := r.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
