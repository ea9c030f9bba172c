package core

import "github.com/jabolina/go-pgm/pkg/pgm/types"

// Direction classifies a parsed packet relative to this transport's own TSI
// (spec.md §4.2, on_pgm's downstream/upstream/peer split).
type Direction int

const (
	// Downstream is a source-originated packet (ODATA/RDATA/NCF/SPM/POLL)
	// addressed to the group; dispatched for window processing when
	// CanRecvData is set.
	Downstream Direction = iota
	// Upstream is a receiver-originated packet (NAK/NNAK/SPMR/POLR) addressed
	// to our own TSI, i.e. a repair request we must act on as a source.
	Upstream
	// Peer is a receiver-originated packet addressed to a different
	// receiver's TSI, observed only to suppress redundant NAKs.
	Peer
	// Discard is a packet this transport has no use for, e.g. a
	// CanRecvData-false transport seeing a downstream frame it was never
	// configured to consume, or an upstream frame when CanSendData is false.
	Discard
)

// Classify determines a packet's direction, comparing its destination port
// against this transport's own TSI source port exactly as on_pgm does before
// dispatching to on_upstream/on_peer/on_downstream, then narrowing to
// Discard for directions this transport was not configured to handle or for
// a packet type that is never valid on the direction its dport selected
// (spec.md §4.2's per-type capability: only {NAK,NNAK,SPMR,POLR} are
// upstream-capable, and only {NAK,SPMR} are peer-capable).
func Classify(h *types.Header, t *Transport) Direction {
	if h.Type.IsDownstream() {
		if !t.CanRecvData {
			return Discard
		}
		return Downstream
	}
	if h.Dport == t.TSI.Sport {
		if !h.Type.IsUpstreamCapable() || !t.CanSendData {
			return Discard
		}
		return Upstream
	}
	if !h.Type.IsPeerCapable() {
		return Discard
	}
	return Peer
}
