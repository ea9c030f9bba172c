package core

import "github.com/jabolina/go-pgm/pkg/pgm/types"

// HandlePeer processes a packet addressed to a different receiver about a
// third-party source (NAK/SPMR observed peer-to-peer), grounded on on_peer
// in recv.c. A muted receiver, a dport mismatch, or an unknown source TSI
// all discard the frame; the matched peer's window still only records the
// observation (NAK suppression itself is out of scope, spec.md §1). on_peer
// bumps SOURCE_PACKETS_DISCARDED on the muted-receiver and dport-mismatch
// paths (the packet's own source is never identified at that point, so the
// discard is attributed the same way on_pgm's fallthrough attributes an
// unroutable packet), conditioned on CanSendData exactly as that fallthrough
// is.
func (t *Transport) HandlePeer(skb *types.SocketBuffer) (*Peer, bool) {
	if !t.CanRecvData {
		if t.CanSendData {
			t.Stats.Add(types.StatSourcePacketsDiscarded, 1)
		}
		return nil, false
	}
	if skb.Header.Dport != t.DPort {
		if t.CanSendData {
			t.Stats.Add(types.StatSourcePacketsDiscarded, 1)
		}
		return nil, false
	}

	t.peersMu.RLock()
	source, known := t.peers[skb.TSI]
	t.peersMu.RUnlock()
	if !known {
		t.Stats.Add(types.StatReceiverPacketsDiscarded, 1)
		return nil, false
	}

	var ok bool
	switch skb.Header.Type {
	case types.PacketTypeNAK:
		ok = source.Window.OnPeerNAK(skb)
	case types.PacketTypeSPMR:
		ok = source.Window.OnSPMR(skb)
	default:
		ok = false
	}
	if !ok {
		source.Stats.PacketsDiscarded.Add(1)
	}
	return source, ok
}
