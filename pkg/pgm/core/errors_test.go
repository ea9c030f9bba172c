package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

func TestErrnoFromSyscallMapsKnownErrnos(t *testing.T) {
	tests := []struct {
		errno unix.Errno
		want  error
	}{
		{unix.EBADF, ErrBadFileDescriptor},
		{unix.EFAULT, ErrFault},
		{unix.EINTR, ErrInterrupted},
		{unix.EINVAL, ErrInvalid},
		{unix.ENOMEM, ErrNoMemory},
	}
	for _, tt := range tests {
		t.Run(tt.want.Error(), func(t *testing.T) {
			require.Equal(t, tt.want, errnoFromSyscall(tt.errno))
		})
	}
}

func TestErrnoFromSyscallWrapsUnknownErrno(t *testing.T) {
	err := errnoFromSyscall(unix.ENOTSOCK)
	require.True(t, errors.Is(err, ErrFailed))
}

func TestErrnoFromSyscallWrapsNonErrno(t *testing.T) {
	err := errnoFromSyscall(fmt.Errorf("boom"))
	require.True(t, errors.Is(err, ErrFailed))
}

func TestConnResetErrorMessageNamesSource(t *testing.T) {
	tsi := types.TSI{Sport: 42}
	err := &ConnResetError{TSI: tsi}
	require.Contains(t, err.Error(), tsi.String())
}
