package types

import "sync/atomic"

// StatKind indexes the transport-wide statistics array. The indices are part
// of the public, wire-compatible ABI (spec.md §6) so they must never be
// reordered.
type StatKind int

const (
	StatSourcePacketsDiscarded StatKind = iota
	StatSourceChecksumErrors
	StatReceiverPacketsDiscarded
	StatReceiverBytesReceived

	statCount
)

func (k StatKind) String() string {
	switch k {
	case StatSourcePacketsDiscarded:
		return "SOURCE_PACKETS_DISCARDED"
	case StatSourceChecksumErrors:
		return "SOURCE_CKSUM_ERRORS"
	case StatReceiverPacketsDiscarded:
		return "RECEIVER_PACKETS_DISCARDED"
	case StatReceiverBytesReceived:
		return "RECEIVER_BYTES_RECEIVED"
	default:
		return "UNKNOWN"
	}
}

// Sink receives a copy of every counter increment, so an ambient metrics
// exporter (pkg/pgm/metrics) can mirror the ABI array into something
// scrapeable without the counters themselves depending on prometheus.
type Sink interface {
	Add(kind StatKind, delta uint64)
}

// Stats is the transport's cumulative statistics array (spec.md §3/§6), plus
// an optional sink for ambient exporters.
type Stats struct {
	counters [statCount]atomic.Uint64
	sink     Sink
}

// SetSink installs (or clears, with nil) the ambient metrics sink.
func (s *Stats) SetSink(sink Sink) {
	s.sink = sink
}

// Add increments the named counter and mirrors the delta to the sink, if any.
func (s *Stats) Add(kind StatKind, delta uint64) {
	s.counters[kind].Add(delta)
	if s.sink != nil {
		s.sink.Add(kind, delta)
	}
}

// Get reads the current value of the named counter.
func (s *Stats) Get(kind StatKind) uint64 {
	return s.counters[kind].Load()
}

// Snapshot returns a point-in-time copy of all counters, keyed by kind.
func (s *Stats) Snapshot() map[StatKind]uint64 {
	out := make(map[StatKind]uint64, statCount)
	for k := StatKind(0); k < statCount; k++ {
		out[k] = s.counters[k].Load()
	}
	return out
}
