package core

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

// Error taxonomy (spec.md §7). wait_for_event syscall failures map onto
// these sentinels via errnoError; ConnResetError is returned on the
// unrecoverable-loss fast path.
var (
	ErrBadFileDescriptor = errors.New("pgm: bad file descriptor")
	ErrFault             = errors.New("pgm: fault")
	ErrInterrupted       = errors.New("pgm: interrupted")
	ErrInvalid           = errors.New("pgm: invalid argument")
	ErrNoMemory          = errors.New("pgm: out of memory")
	ErrFailed            = errors.New("pgm: failed")

	// ErrClosed is returned by the socket reader on a zero-length read
	// (spec.md §4.1: "a zero-length read signals socket closure").
	ErrClosed = errors.New("pgm: socket closed")

	// ErrWouldBlock is returned by the socket reader when no datagram is
	// ready and the caller asked for MSG_DONTWAIT semantics.
	ErrWouldBlock = errors.New("pgm: would block")

	// ErrInvalidFrame is returned by the socket reader when destination
	// recovery via control data was mandatory but absent (spec.md §4.1).
	ErrInvalidFrame = errors.New("pgm: destination address could not be recovered")
)

// ConnResetError names the peer whose unrecoverable loss triggered the
// reset fast path (spec.md §4.7/§7).
type ConnResetError struct {
	TSI types.TSI
}

func (e *ConnResetError) Error() string {
	return fmt.Sprintf("pgm: transport reset on unrecoverable loss from %s", e.TSI)
}

// errnoFromSyscall maps a unix.Errno onto the public taxonomy, mirroring
// pgm_recv_error_from_errno.
func errnoFromSyscall(err error) error {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return fmt.Errorf("%w: %v", ErrFailed, err)
	}
	switch errno {
	case unix.EBADF:
		return ErrBadFileDescriptor
	case unix.EFAULT:
		return ErrFault
	case unix.EINTR:
		return ErrInterrupted
	case unix.EINVAL:
		return ErrInvalid
	case unix.ENOMEM:
		return ErrNoMemory
	default:
		return fmt.Errorf("%w: %v", ErrFailed, errno)
	}
}
