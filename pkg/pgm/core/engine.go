package core

import (
	"errors"
	"net"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
	"github.com/jabolina/go-pgm/pkg/pgm/wire"
)

// engineState names the labeled states pgm_recvmsgv's goto-driven body
// moves between (Flush/Recv/CheckRepeat/Wait/Exit, design note §9).
type engineState int

const (
	stateFlush engineState = iota
	stateRecv
	stateCheckRepeat
	stateWait
	stateOut
)

// RecvMsgv is the blocking/non-blocking delivery loop (spec.md §4.7),
// re-expressed from pgm_recvmsgv's goto chain as an explicit state machine.
// pendingMu is held for the whole call except while WaitForEvent blocks in
// unix.Poll (spec.md §5's borrow-and-release pattern).
func (t *Transport) RecvMsgv(msgv []types.MessageVector, flags RecvFlags) (int, RecvStatus, error) {
	if t.IsReset.Load() {
		return t.resetFastPath(msgv, flags)
	}

	t.pendingMu.Lock()

	if t.timer.Check() {
		t.timer.Dispatch(t)
		t.timer.Prepare()
	}

	writeIdx, dataRead, bytesRead := 0, 0, 0
	reader := socketReader{}

	state := stateRecv
	if !t.peersPending.Empty() {
		state = stateFlush
	}

loop:
	for {
		switch state {
		case stateFlush:
			if full := t.flushPeersPending(msgv, &writeIdx, &dataRead, &bytesRead); full {
				state = stateOut
				continue loop
			}
			// A non-blocking caller keeps draining the socket until the
			// vector fills (check_for_repeat's `len > 0 && pmsg < msg_end`
			// is always true here, since this flush followed a successful
			// read). A blocking caller must stop once it has delivered
			// anything at all, so route through stateCheckRepeat's
			// data_read==0 test instead of reading again unconditionally.
			if flags.has(FlagDontWait) {
				state = stateRecv
				continue loop
			}
			state = stateCheckRepeat

		case stateRecv:
			src, dst, rerr := reader.ReadOne(t.RecvSocket, t.rxBuffer, true)
			if rerr != nil {
				if rerr == ErrClosed {
					state = stateOut
					continue loop
				}
				// EAGAIN or any other syscall failure falls through to
				// check_for_repeat, exactly as recv_again's `len < 0` does.
				state = stateCheckRepeat
				continue loop
			}

			if perr := t.parseReceived(src, dst); perr != nil {
				if t.CanSendData {
					if errors.Is(perr, wire.ErrChecksum) {
						t.Stats.Add(types.StatSourceChecksumErrors, 1)
					}
					t.Stats.Add(types.StatSourcePacketsDiscarded, 1)
				}
				continue loop // recv_again
			}

			typ := t.rxBuffer.Header.Type
			_, accepted := t.Dispatch(t.rxBuffer, src, dst)
			if !accepted {
				continue loop // recv_again
			}
			if typ == types.PacketTypeODATA || typ == types.PacketTypeRDATA {
				// Ownership of rxBuffer transferred into the window; the next
				// read needs a fresh buffer (on_downstream's
				// pgm_alloc_skb(transport->max_tpdu) after pgm_on_data).
				t.rxBuffer = types.NewSocketBuffer(int(t.MaxTPDU))
			}
			state = stateFlush

		case stateCheckRepeat:
			// Reached two ways: a failed (non-blocking-would-block or
			// erroring) read falls straight here from stateRecv, or a
			// blocking caller's successful flush routes here from
			// stateFlush. Only the first case reaches this DontWait branch
			// in practice (stateFlush already handles its own DontWait
			// retry before arriving), so under DontWait the most recent
			// read did NOT succeed and pgm_recvmsgv's `len > 0 && pmsg <
			// msg_end` condition is therefore always false: a non-blocking
			// caller never spins on an empty socket.
			if flags.has(FlagDontWait) {
				state = stateOut
				continue loop
			}
			if dataRead == 0 {
				state = stateWait
				continue loop
			}
			state = stateOut

		case stateWait:
			t.pendingMu.Unlock()
			result, werr := t.WaitForEvent(t.timer.ExpirationMicros())
			t.pendingMu.Lock()
			if werr != nil {
				t.pendingMu.Unlock()
				return 0, StatusError, werr
			}
			if result == waitDataReady {
				state = stateRecv
				continue loop
			}
			t.timer.Dispatch(t)
			state = stateFlush

		case stateOut:
			break loop
		}
	}

	return t.finishRecv(dataRead, bytesRead, flags, msgv)
}

// parseReceived decodes whichever framing this transport expects — UDP
// encapsulation if configured or the source address came in over IPv6, raw
// PGM otherwise — mirroring pgm_recvmsgv's is_valid test.
func (t *Transport) parseReceived(src, dst net.Addr) error {
	if t.UDPEncapPort != 0 || types.IsIPv6(src) {
		return t.wireParser.ParseUDPEncap(t.rxBuffer)
	}
	return t.wireParser.ParseRaw(t.rxBuffer, dst)
}

// flushPeersPending drains contiguous runs from every pending peer in FIFO
// order, round-robin style, stopping once the caller's vector is full
// (pgm_flush_peers_pending). Returns true iff the vector is now full.
func (t *Transport) flushPeersPending(msgv []types.MessageVector, writeIdx, dataRead, bytesRead *int) bool {
	for !t.peersPending.Empty() {
		if *writeIdx >= len(msgv) {
			return true
		}
		peer := t.peersPending.PopFront()
		delivered, bytes := peer.Window.Flush(msgv[*writeIdx:], peer.TSI)
		*writeIdx += delivered
		*dataRead += delivered
		*bytesRead += bytes
		if peer.Window.HasPending() {
			t.peersPending.Requeue(peer)
		}
	}
	return *writeIdx >= len(msgv)
}

// finishRecv implements the `out:` label: notifier bookkeeping, the
// reset-at-zero-data path, and edge/level-triggered notification adjustment
// (spec.md §4.7 step 7).
func (t *Transport) finishRecv(dataRead, bytesRead int, flags RecvFlags, msgv []types.MessageVector) (int, RecvStatus, error) {
	if dataRead == 0 {
		if t.isPendingRead.Swap(false) {
			_ = t.notify.Clear()
		}
		t.pendingMu.Unlock()

		if t.IsReset.Load() {
			return t.resetFastPath(msgv, flags)
		}
		return 0, StatusAgain, nil
	}

	if !t.peersPending.Empty() {
		pendingRead := t.isPendingRead.Load()
		edge := t.IsEdgeTriggeredRecv.Load()
		switch {
		case pendingRead && edge:
			_ = t.notify.Clear()
			t.isPendingRead.Store(false)
		case !pendingRead && !edge:
			_ = t.notify.Send()
			t.isPendingRead.Store(true)
		}
	}
	t.pendingMu.Unlock()
	return bytesRead, StatusNormal, nil
}

// resetFastPath implements the unrecoverable-loss short circuit that both
// the top of RecvMsgv and its zero-data exit take (spec.md §4.7's "reset
// fast-path").
func (t *Transport) resetFastPath(msgv []types.MessageVector, flags RecvFlags) (int, RecvStatus, error) {
	var tsi types.TSI
	if peer := t.peersPending.Front(); peer != nil {
		tsi = peer.TSI
	}

	var err error
	if flags.has(FlagErrQueue) {
		if len(msgv) > 0 {
			msgv[0] = types.MessageVector{From: tsi}
		}
	} else {
		err = &ConnResetError{TSI: tsi}
	}
	if !t.IsAbortOnReset.Load() {
		t.IsReset.Store(false)
	}
	return 0, StatusEof, err
}
