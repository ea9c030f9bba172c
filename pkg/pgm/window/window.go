// Package window implements the per-peer receive window collaborator that
// spec.md names as external ("the receive window and FEC decoder") but
// which the dispatcher must drive through a concrete contract to be
// testable end to end. SequenceWindow buffers out-of-order ODATA/RDATA,
// exposes contiguous runs for flushing, and performs in-order dedup — it
// does not implement Reed-Solomon repair (spec.md §1 non-goal).
package window

import (
	"sync"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

// SequenceWindow is a sliding window over a single source's sequence space.
type SequenceWindow struct {
	mu      sync.Mutex
	have    map[uint32]*types.SocketBuffer
	next    uint32
	started bool
}

// NewSequenceWindow creates an empty window. The first accepted sequence
// number seeds the window's expected-next cursor.
func NewSequenceWindow() *SequenceWindow {
	return &SequenceWindow{have: make(map[uint32]*types.SocketBuffer)}
}

// OnData accepts an ODATA/RDATA skb into the window and always returns true.
// A sequence number that has already been delivered or is already buffered
// is dropped without being stored — the dedup property spec.md §8 requires
// ("replaying the same valid ODATA frame twice produces exactly one APDU").
func (w *SequenceWindow) OnData(skb *types.SocketBuffer) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	seq := skb.SequenceNumber
	if !w.started {
		w.next = seq
		w.started = true
	}
	if seqBefore(seq, w.next) {
		// Already delivered; a retransmit or duplicate original, either way
		// the dedup contract says accept-but-drop, not error.
		return true
	}
	if _, dup := w.have[seq]; dup {
		return true
	}
	w.have[seq] = skb
	return true
}

// OnNCF, OnSPM are accepted unconditionally; they don't buffer data, only
// inform retransmit/heartbeat bookkeeping that lives in the timer
// collaborator (out of scope here).
func (w *SequenceWindow) OnNCF(_ *types.SocketBuffer) bool { return true }
func (w *SequenceWindow) OnSPM(_ *types.SocketBuffer) bool { return true }

// OnNAK, OnPeerNAK, OnNNAK, OnSPMR are transmit-side/repair concerns that,
// per spec.md §1, belong to the NAK backoff state machine and rate control
// (out of scope); the window only needs to acknowledge it was asked.
func (w *SequenceWindow) OnNAK(_ *types.SocketBuffer) bool     { return true }
func (w *SequenceWindow) OnPeerNAK(_ *types.SocketBuffer) bool { return true }
func (w *SequenceWindow) OnNNAK(_ *types.SocketBuffer) bool    { return true }
func (w *SequenceWindow) OnSPMR(_ *types.SocketBuffer) bool    { return true }

// HasPending reports whether the window holds at least one contiguous,
// not-yet-flushed run starting at the expected-next sequence number
// (spec.md §3 invariant on peers_pending).
func (w *SequenceWindow) HasPending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.have[w.next]
	return ok
}

// Flush drains up to len(dst) contiguous APDUs (here, one TPDU == one APDU;
// PGM's own APDU fragmentation across TPDUs is handled by stitching multiple
// skbs into one MessageVector entry, which this reference window does not
// need for single-TPDU payloads) into dst, advancing the expected-next
// cursor past everything delivered. Returns the count delivered and total
// bytes, for the engine's bytes_read/data_read bookkeeping (spec.md §4.7).
func (w *SequenceWindow) Flush(dst []types.MessageVector, tsi types.TSI) (delivered int, bytes int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for delivered < len(dst) {
		skb, ok := w.have[w.next]
		if !ok {
			break
		}
		dst[delivered] = types.MessageVector{Skbs: []*types.SocketBuffer{skb}, From: tsi}
		bytes += skb.Len()
		delete(w.have, w.next)
		w.next++
		delivered++
	}
	return delivered, bytes
}

// seqBefore reports whether a precedes b in the 32-bit wrap-around sequence
// space (serial number arithmetic per RFC 1982).
func seqBefore(a, b uint32) bool {
	return int32(a-b) < 0
}
