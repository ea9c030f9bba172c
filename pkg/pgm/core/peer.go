package core

import (
	"net"
	"sync"
	"time"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

// ReceiveWindow is the per-peer receive window collaborator contract
// (spec.md §6). pkg/pgm/window.SequenceWindow is the reference
// implementation wired by NewTransport.
type ReceiveWindow interface {
	OnData(skb *types.SocketBuffer) bool
	OnNCF(skb *types.SocketBuffer) bool
	OnSPM(skb *types.SocketBuffer) bool
	OnNAK(skb *types.SocketBuffer) bool
	OnPeerNAK(skb *types.SocketBuffer) bool
	OnNNAK(skb *types.SocketBuffer) bool
	OnSPMR(skb *types.SocketBuffer) bool
	HasPending() bool
	Flush(dst []types.MessageVector, tsi types.TSI) (delivered, bytes int)
}

// WindowFactory builds a fresh receive window for a newly-created peer.
type WindowFactory func() ReceiveWindow

// Peer is a known remote source (spec.md §3). It is created lazily on the
// first valid downstream packet from an unknown TSI and destroyed only at
// transport teardown (spec.md §1 non-goal: reference-counted cross-thread
// teardown — there is exactly one teardown path here, Transport.Close).
type Peer struct {
	TSI types.TSI

	mu         sync.Mutex
	lastPacket time.Time
	groupNLA   net.Addr

	Window ReceiveWindow
	Stats  types.PeerStats
}

// NewPeer constructs a peer from the TSI and the src/dst addresses observed
// on its first downstream packet (spec.md §4.5, recv.c's pgm_new_peer).
func NewPeer(tsi types.TSI, _, dst net.Addr, newWindow WindowFactory) *Peer {
	p := &Peer{TSI: tsi, Window: newWindow()}
	if types.IsMulticast(dst) {
		p.groupNLA = dst
	}
	return p
}

// TouchLastPacket records the receive time of the most recent packet from
// this peer. Mutated only by receive-path code while pendingMu is held
// (spec.md §5).
func (p *Peer) TouchLastPacket(t time.Time) {
	p.mu.Lock()
	p.lastPacket = t
	p.mu.Unlock()
}

// LastPacket returns the last-observed receive time.
func (p *Peer) LastPacket() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPacket
}

// SetGroupNLA records the multicast group this source sends to, updated
// whenever an SPM arrives addressed to a multicast destination (spec.md
// §4.5).
func (p *Peer) SetGroupNLA(addr net.Addr) {
	p.mu.Lock()
	p.groupNLA = addr
	p.mu.Unlock()
}

// GroupNLA returns the peer's multicast group NLA, or nil if unknown.
func (p *Peer) GroupNLA() net.Addr {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.groupNLA
}

// PendingSet is the ordered set of peers with at least one contiguous run of
// deliverable APDUs (spec.md §3). Enumeration is FIFO to keep flushing fair
// across peers (spec.md §5).
type PendingSet struct {
	mu      sync.Mutex
	order   []*Peer
	present map[*Peer]bool
}

// NewPendingSet creates an empty pending set.
func NewPendingSet() *PendingSet {
	return &PendingSet{present: make(map[*Peer]bool)}
}

// Add enqueues a peer if not already present.
func (s *PendingSet) Add(p *Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.present[p] {
		return
	}
	s.present[p] = true
	s.order = append(s.order, p)
}

// Front returns the first pending peer without removing it, or nil if
// empty.
func (s *PendingSet) Front() *Peer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == 0 {
		return nil
	}
	return s.order[0]
}

// PopFront removes and returns the first pending peer, or nil if empty.
func (s *PendingSet) PopFront() *Peer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == 0 {
		return nil
	}
	p := s.order[0]
	s.order = s.order[1:]
	delete(s.present, p)
	return p
}

// Requeue appends a peer to the back of the order (used after PopFront when
// a peer still has more contiguous data after a partial flush, to preserve
// fairness across peers per spec.md §5). A peer that is still present keeps
// its current place.
func (s *PendingSet) Requeue(p *Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.present[p] {
		return
	}
	s.present[p] = true
	s.order = append(s.order, p)
}

// Empty reports whether the pending set has no peers.
func (s *PendingSet) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order) == 0
}
