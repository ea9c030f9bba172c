// Package pgm is the public facade over the receive-side dispatch engine:
// Listen binds a socket and wires the reference collaborators (wire parser,
// sliding window, SPM timer, default logger); Transport exposes the four
// delivery entry points recv.c exposes (recvmsgv/recvmsg/recvfrom/recv),
// matching the teacher's top-level Unity-wraps-core pattern rather than
// re-implementing dispatch logic at this layer.
package pgm

import (
	"fmt"
	"net"

	"github.com/jabolina/go-pgm/pkg/pgm/core"
	"github.com/jabolina/go-pgm/pkg/pgm/definition"
	"github.com/jabolina/go-pgm/pkg/pgm/timerwheel"
	"github.com/jabolina/go-pgm/pkg/pgm/types"
	"github.com/jabolina/go-pgm/pkg/pgm/window"
	"github.com/jabolina/go-pgm/pkg/pgm/wire"
)

// Re-exported so callers never need to import pkg/pgm/core directly.
type (
	RecvStatus = core.RecvStatus
	RecvFlags  = core.RecvFlags
)

const (
	StatusNormal = core.StatusNormal
	StatusAgain  = core.StatusAgain
	StatusEof    = core.StatusEof
	StatusError  = core.StatusError

	DontWait = core.FlagDontWait
	ErrQueue = core.FlagErrQueue
	FIN      = core.FlagFIN
)

// Transport is a bound, receive-capable PGM transport.
type Transport struct {
	core *core.Transport
}

// Listen binds laddr and returns a Transport ready for RecvMsgv. With
// WithUDPEncapsulation it binds a UDP socket and network is not consulted;
// otherwise it binds a raw PGM socket, IPv6 when network is "ip6" and IPv4
// for any other value. The local TSI's
// GSI is generated fresh (types.NewLocalGSI); its source port is the bound
// socket's local port for UDP encapsulation, or 0 for a raw IP socket (PGM's
// own source-port field carries the session identity there instead).
func Listen(network, laddr string, opts ...Option) (*Transport, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	v6 := false
	var pc net.PacketConn
	var err error
	if cfg.udpEncapPort != 0 {
		pc, err = net.ListenPacket("udp", laddr)
	} else {
		proto := fmt.Sprintf("ip4:%d", pgmProtocolNumber)
		if network == "ip6" {
			proto = fmt.Sprintf("ip6:%d", pgmProtocolNumber)
			v6 = true
		}
		pc, err = net.ListenPacket(proto, laddr)
	}
	if err != nil {
		return nil, err
	}
	if udpAddr, ok := pc.LocalAddr().(*net.UDPAddr); ok {
		v6 = udpAddr.IP.To4() == nil
	}

	sock, err := core.NewSocket(pc, v6, cfg.udpEncapPort)
	if err != nil {
		_ = pc.Close()
		return nil, err
	}

	var sport uint16
	if udpAddr, ok := pc.LocalAddr().(*net.UDPAddr); ok {
		sport = uint16(udpAddr.Port)
	}

	logger := cfg.logger
	if logger == nil {
		logger = definition.NewDefaultLogger()
	}

	timer := timerwheel.NewSPMTimer(cfg.spmInterval, cfg.maxRetries)
	parser := wire.Parser{}
	newWindow := func() core.ReceiveWindow { return window.NewSequenceWindow() }

	coreCfg := core.Config{
		TSI:                 types.TSI{GSI: types.NewLocalGSI(), Sport: sport},
		DPort:               cfg.dport,
		MaxTPDU:             cfg.maxTPDU,
		CanSendData:         cfg.canSendData,
		CanRecvData:         cfg.canRecvData,
		UDPEncapPort:        cfg.udpEncapPort,
		IsEdgeTriggeredRecv: cfg.isEdgeTriggeredRecv,
		IsAbortOnReset:      cfg.isAbortOnReset,
	}

	ct, err := core.NewTransport(coreCfg, sock, timer, parser, newWindow, logger)
	if err != nil {
		_ = sock.Close()
		return nil, err
	}
	if cfg.statSink != nil {
		ct.Stats.SetSink(cfg.statSink)
	}

	return &Transport{core: ct}, nil
}

// Close tears down the transport, unblocking any goroutine parked in
// RecvMsgv's WaitForEvent.
func (t *Transport) Close() error { return t.core.Close() }

// TSI returns this transport's own transport session identifier.
func (t *Transport) TSI() types.TSI { return t.core.TSI }

// Stats returns the live statistics array; Snapshot() for a point-in-time
// copy.
func (t *Transport) Stats() *types.Stats { return t.core.Stats }

// RecvMsgv reads one or more contiguous APDUs into msgv, per spec.md §6's
// four-entry-point contract. Blocking unless flags includes DontWait.
func (t *Transport) RecvMsgv(msgv []types.MessageVector, flags RecvFlags) (bytesRead int, status RecvStatus, err error) {
	return t.core.RecvMsgv(msgv, flags)
}

// RecvMsg reads exactly one contiguous APDU (pgm_recvmsg: recvmsgv with a
// one-element vector).
func (t *Transport) RecvMsg(flags RecvFlags) (types.MessageVector, int, RecvStatus, error) {
	msgv := make([]types.MessageVector, 1)
	n, status, err := t.core.RecvMsgv(msgv, flags)
	if status != StatusNormal {
		return types.MessageVector{}, n, status, err
	}
	return msgv[0], n, status, err
}

// RecvFrom copies one APDU's bytes into buf, truncating if buf is smaller
// than the APDU, and reports the originating TSI (pgm_recvfrom). FIN and
// ErrQueue are stripped from flags before the underlying RecvMsg call,
// mirroring pgm_recvfrom's `flags & ~(MSG_FIN|MSG_ERRQUEUE)`.
func (t *Transport) RecvFrom(buf []byte, flags RecvFlags) (bytesCopied int, from types.TSI, status RecvStatus, err error) {
	mv, _, status, err := t.RecvMsg(flags &^ (FIN | ErrQueue))
	if status != StatusNormal {
		return 0, types.TSI{}, status, err
	}

	from = mv.From
	for _, skb := range mv.Skbs {
		n := skb.Len()
		if bytesCopied+n > len(buf) {
			n = len(buf) - bytesCopied
		}
		copy(buf[bytesCopied:], skb.Data[:n])
		bytesCopied += n
		if bytesCopied >= len(buf) {
			break
		}
	}
	return bytesCopied, from, status, nil
}

// Recv copies one APDU's bytes into buf without reporting its origin
// (pgm_recv: recvfrom with from == nil).
func (t *Transport) Recv(buf []byte, flags RecvFlags) (int, RecvStatus, error) {
	n, _, status, err := t.RecvFrom(buf, flags)
	return n, status, err
}
