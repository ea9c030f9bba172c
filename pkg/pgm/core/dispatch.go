package core

import (
	"net"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

// Dispatch routes one parsed, classified packet to its handler and, on
// acceptance of a downstream data frame, registers the source peer in the
// pending set so RecvMsgv's flush loop visits it (spec.md §4.6, grounded on
// on_pgm's three-way dispatch in recv.c).
func (t *Transport) Dispatch(skb *types.SocketBuffer, src, dst net.Addr) (source *Peer, accepted bool) {
	switch Classify(skb.Header, t) {
	case Downstream:
		source, accepted = t.HandleDownstream(skb, src, dst)
	case Upstream:
		accepted = t.HandleUpstream(skb)
	case Peer:
		source, accepted = t.HandlePeer(skb)
	default:
		// Discarded unknown/unroutable packet (on_pgm's fallthrough).
		if t.CanSendData {
			t.Stats.Add(types.StatSourcePacketsDiscarded, 1)
		}
		accepted = false
	}

	if accepted && source != nil && source.Window.HasPending() {
		t.peersPending.Add(source)
	}
	return source, accepted
}
