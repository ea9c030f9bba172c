// Package metrics is the ambient prometheus exporter for the transport's
// statistics array (spec.md §6/§3), wired the way
// runZeroInc-sockstats/pkg/exporter exposes per-connection counters: a
// small adapter type that implements the domain's push interface
// (types.Sink) and forwards into prometheus collectors, rather than the
// transport importing prometheus directly.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

// Exporter mirrors every types.Stats counter increment into a prometheus
// CounterVec labelled by stat kind, and separately tracks per-peer byte/
// discard counts labelled by TSI.
type Exporter struct {
	counters  *prometheus.CounterVec
	peerBytes *prometheus.CounterVec
	peerDisc  *prometheus.CounterVec
}

// NewExporter builds an Exporter and registers its collectors against reg.
// Pass prometheus.DefaultRegisterer for the global registry.
func NewExporter(reg prometheus.Registerer, namespace string) *Exporter {
	e := &Exporter{
		counters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "packets_total",
			Help:      "Cumulative PGM transport statistics, labelled by counter kind.",
		}, []string{"kind"}),
		peerBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "peer",
			Name:      "bytes_received_total",
			Help:      "Bytes received from a single peer TSI.",
		}, []string{"tsi"}),
		peerDisc: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "peer",
			Name:      "packets_discarded_total",
			Help:      "Packets discarded from a single peer TSI.",
		}, []string{"tsi"}),
	}
	reg.MustRegister(e.counters, e.peerBytes, e.peerDisc)
	return e
}

// Add implements types.Sink, called synchronously on every counter mutation
// in the receive path.
func (e *Exporter) Add(kind types.StatKind, delta uint64) {
	e.counters.WithLabelValues(kind.String()).Add(float64(delta))
}

// ObservePeerBytes records bytes attributed to a single peer TSI. It is
// separate from the Sink path since per-peer counters aren't part of the
// transport's shared Stats array (spec.md §3 keeps those two counter sets
// distinct); the receive path in pkg/pgm/core does not call it.
func (e *Exporter) ObservePeerBytes(tsi types.TSI, delta uint64) {
	e.peerBytes.WithLabelValues(tsi.String()).Add(float64(delta))
}

// ObservePeerDiscard records a discarded packet attributed to a peer TSI.
func (e *Exporter) ObservePeerDiscard(tsi types.TSI, delta uint64) {
	e.peerDisc.WithLabelValues(tsi.String()).Add(float64(delta))
}
