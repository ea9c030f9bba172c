package core

import (
	"net"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

// HandleDownstream processes a source-originated packet, grounded on
// on_downstream in recv.c: it looks up (or lazily creates) the peer for the
// packet's TSI, stamps receive-time/byte stats, and dispatches into the
// peer's window by packet type. ODATA/RDATA acceptance is what makes a peer
// a candidate for the pending set (spec.md §4.6 decides that, not here).
func (t *Transport) HandleDownstream(skb *types.SocketBuffer, src, dst net.Addr) (*Peer, bool) {
	if !t.CanRecvData {
		return nil, false
	}
	if skb.Header.Dport != t.DPort {
		return nil, false
	}

	source, _ := t.lookupOrCreatePeer(skb.TSI, src, dst)
	source.Stats.BytesReceived.Add(uint64(skb.Len()))
	t.Stats.Add(types.StatReceiverBytesReceived, uint64(skb.Len()))
	source.TouchLastPacket(skb.Tstamp)

	var ok bool
	switch skb.Header.Type {
	case types.PacketTypeODATA, types.PacketTypeRDATA:
		ok = source.Window.OnData(skb)
	case types.PacketTypeNCF:
		ok = source.Window.OnNCF(skb)
	case types.PacketTypeSPM:
		ok = source.Window.OnSPM(skb)
		if ok && types.IsMulticast(dst) {
			source.SetGroupNLA(dst)
		}
	default:
		ok = false
	}

	if !ok {
		source.Stats.PacketsDiscarded.Add(1)
	}
	return source, ok
}

// lookupOrCreatePeer finds the peer for tsi under a read lock, falling back
// to a double-checked create under the write lock on first sight.
func (t *Transport) lookupOrCreatePeer(tsi types.TSI, src, dst net.Addr) (*Peer, bool) {
	t.peersMu.RLock()
	p, ok := t.peers[tsi]
	t.peersMu.RUnlock()
	if ok {
		return p, false
	}

	t.peersMu.Lock()
	defer t.peersMu.Unlock()
	if p, ok := t.peers[tsi]; ok {
		return p, false
	}
	p = NewPeer(tsi, src, dst, t.newWindow)
	t.peers[tsi] = p
	return p, true
}
