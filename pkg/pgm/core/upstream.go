package core

import "github.com/jabolina/go-pgm/pkg/pgm/types"

// HandleUpstream processes a packet addressed to this transport's own TSI
// (NAK/NNAK/SPMR), grounded on on_upstream in recv.c. A muted source
// (CanSendData false) or a port/GSI mismatch discards the frame before it
// reaches the window; NAK-backoff/retransmission handling itself is out of
// scope (spec.md §1 non-goal: source-side retransmission scheduling), so
// window.SequenceWindow's OnNAK/OnNNAK/OnSPMR hooks simply acknowledge
// receipt for statistics and testability.
//
// Classify already matched the frame's Dport against our own TSI.Sport to
// route it here; on_upstream's remaining check is against the frame's own
// (reversed) Sport field, which must equal our Dport — the wire Sport is
// already carried in skb.Header.TSI.Sport (wire/parser.go's offSport), so no
// separate field is needed here.
func (t *Transport) HandleUpstream(skb *types.SocketBuffer) bool {
	if !t.CanSendData {
		t.Stats.Add(types.StatSourcePacketsDiscarded, 1)
		return false
	}
	if skb.Header.TSI.Sport != t.DPort {
		t.Stats.Add(types.StatSourcePacketsDiscarded, 1)
		return false
	}
	if !skb.Header.TSI.GSI.Equal(t.TSI.GSI) {
		t.Stats.Add(types.StatSourcePacketsDiscarded, 1)
		return false
	}

	window := t.ownWindow()
	var ok bool
	switch skb.Header.Type {
	case types.PacketTypeNAK:
		ok = window.OnNAK(skb)
	case types.PacketTypeNNAK:
		ok = window.OnNNAK(skb)
	case types.PacketTypeSPMR:
		ok = window.OnSPMR(skb)
	default:
		ok = false
	}
	if !ok {
		t.Stats.Add(types.StatSourcePacketsDiscarded, 1)
	}
	return ok
}
