package pgm

import "github.com/jabolina/go-pgm/pkg/pgm/core"

// Re-exported error taxonomy (spec.md §7) so callers never need to import
// pkg/pgm/core directly.
var (
	ErrBadFileDescriptor = core.ErrBadFileDescriptor
	ErrFault             = core.ErrFault
	ErrInterrupted       = core.ErrInterrupted
	ErrInvalid           = core.ErrInvalid
	ErrNoMemory          = core.ErrNoMemory
	ErrFailed            = core.ErrFailed
	ErrClosed            = core.ErrClosed
	ErrWouldBlock        = core.ErrWouldBlock
	ErrInvalidFrame      = core.ErrInvalidFrame
)

// ConnResetError is returned (or wrapped) by RecvMsgv/RecvMsg/RecvFrom/Recv
// when a peer's unrecoverable loss triggered the reset fast-path.
type ConnResetError = core.ConnResetError
