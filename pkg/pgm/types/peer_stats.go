package types

import "sync/atomic"

// PeerStats holds the per-peer counters referenced by spec.md §3/§4.5.
type PeerStats struct {
	BytesReceived    atomic.Uint64
	PacketsDiscarded atomic.Uint64
}
