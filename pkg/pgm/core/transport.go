package core

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jabolina/go-pgm/pkg/pgm/timerwheel"
	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

// Timer is the timer collaborator contract (spec.md §1/§6).
// timerwheel.SPMTimer is the reference implementation.
type Timer interface {
	Check() bool
	Dispatch(r timerwheel.Resetter)
	Prepare()
	ExpirationMicros() time.Duration
}

// WireParser is the framing collaborator contract (spec.md §4.1/§6).
// wire.Parser is the reference implementation.
type WireParser interface {
	ParseRaw(skb *types.SocketBuffer, dst net.Addr) error
	ParseUDPEncap(skb *types.SocketBuffer) error
}

// Transport is the receive-side dispatch engine (spec.md §1/§3, pgm_transport_t
// in recv.c). It owns exactly one receive socket, the full peer set, and the
// mutex/notifier pair that make RecvMsgv safe to call from one goroutine at a
// time while a second goroutine can still wake it (spec.md §5).
type Transport struct {
	MaxTPDU uint16
	TSI     types.TSI
	DPort   uint16

	CanSendData bool
	CanRecvData bool

	RecvSocket   *Socket
	UDPEncapPort uint16

	peersMu sync.RWMutex
	peers   map[types.TSI]*Peer

	peersPending *PendingSet
	newWindow    WindowFactory
	selfWindow   ReceiveWindow

	rxBuffer *types.SocketBuffer

	timer      Timer
	wireParser WireParser

	pendingMu     sync.Mutex
	notify        Notifier
	isPendingRead atomic.Bool

	IsEdgeTriggeredRecv atomic.Bool
	IsReset             atomic.Bool
	IsAbortOnReset      atomic.Bool
	IsBound             atomic.Bool
	IsDestroyed         atomic.Bool

	Stats *types.Stats
	Log   types.Logger
}

// Config bundles everything NewTransport needs beyond the collaborators
// themselves (spec.md §3's transport-level fields that are caller-supplied
// rather than derived).
type Config struct {
	TSI                 types.TSI
	DPort               uint16
	MaxTPDU             uint16
	CanSendData         bool
	CanRecvData         bool
	UDPEncapPort        uint16
	IsEdgeTriggeredRecv bool
	IsAbortOnReset      bool
}

// NewTransport wires a bound socket, a timer, a wire parser, and a window
// factory into a running Transport. It does not start a goroutine; callers
// drive RecvMsgv themselves or via the facade's Listen loop.
func NewTransport(cfg Config, sock *Socket, timer Timer, parser WireParser, newWindow WindowFactory, log types.Logger) (*Transport, error) {
	notify, err := NewPipeNotifier()
	if err != nil {
		return nil, err
	}

	t := &Transport{
		MaxTPDU:      cfg.MaxTPDU,
		TSI:          cfg.TSI,
		DPort:        cfg.DPort,
		CanSendData:  cfg.CanSendData,
		CanRecvData:  cfg.CanRecvData,
		RecvSocket:   sock,
		UDPEncapPort: cfg.UDPEncapPort,
		peers:        make(map[types.TSI]*Peer),
		peersPending: NewPendingSet(),
		newWindow:    newWindow,
		rxBuffer:     types.NewSocketBuffer(int(cfg.MaxTPDU)),
		timer:        timer,
		wireParser:   parser,
		notify:       notify,
		Stats:        &types.Stats{},
		Log:          log,
	}
	t.IsEdgeTriggeredRecv.Store(cfg.IsEdgeTriggeredRecv)
	t.IsAbortOnReset.Store(cfg.IsAbortOnReset)
	t.IsBound.Store(true)
	return t, nil
}

// ownWindow lazily creates the window this transport uses to track NAKs
// addressed back at its own published data (HandleUpstream's collaborator);
// kept separate from the per-peer windows in t.peers, which track data
// received from others.
func (t *Transport) ownWindow() ReceiveWindow {
	t.peersMu.Lock()
	defer t.peersMu.Unlock()
	if t.selfWindow == nil {
		t.selfWindow = t.newWindow()
	}
	return t.selfWindow
}

// MarkReset implements timerwheel.Resetter: the timer calls this once a
// peer's repair deadline has been missed past its retry ceiling, the sole
// producer of the reset fast-path (spec.md §4.7).
func (t *Transport) MarkReset(tsi types.TSI) {
	t.peersMu.RLock()
	peer, ok := t.peers[tsi]
	t.peersMu.RUnlock()
	if ok {
		t.peersPending.Add(peer)
	}
	t.IsReset.Store(true)
}

// Close tears the transport down: marks it destroyed and closes both ends of
// the notifier, unblocking any in-flight WaitForEvent poll (spec.md
// §5). It is the only code path allowed to delete peer map entries.
func (t *Transport) Close() error {
	t.IsDestroyed.Store(true)
	err := t.notify.Close()

	t.peersMu.Lock()
	t.peers = make(map[types.TSI]*Peer)
	t.peersMu.Unlock()

	if sockErr := t.RecvSocket.Close(); err == nil {
		err = sockErr
	}
	return err
}

// Peer looks up a known source by TSI.
func (t *Transport) Peer(tsi types.TSI) (*Peer, bool) {
	t.peersMu.RLock()
	defer t.peersMu.RUnlock()
	p, ok := t.peers[tsi]
	return p, ok
}
