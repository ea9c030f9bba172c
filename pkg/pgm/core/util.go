package core

import (
	"errors"
	"net"
	"time"
)

// now is the single time.Now() call site in the receive path, kept separate
// so tests can shadow it if a fake clock is ever needed.
func now() time.Time { return time.Now() }

// setNonblockingDeadline arranges for the next read on sock to return
// immediately if no datagram is queued, standing in for MSG_DONTWAIT (spec.md
// §4.1/§4.6) since the net package has no per-call non-blocking read.
func setNonblockingDeadline(sock *Socket) error {
	return sock.conn.SetReadDeadline(now().Add(time.Microsecond))
}

// clearDeadline restores blocking-read semantics.
func clearDeadline(sock *Socket) error {
	return sock.conn.SetReadDeadline(time.Time{})
}

// isWouldBlock reports whether err is the net package's spelling of
// EAGAIN/EWOULDBLOCK, i.e. a deadline expiring with nothing queued.
func isWouldBlock(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
