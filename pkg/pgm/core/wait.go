package core

import (
	"time"

	"golang.org/x/sys/unix"
)

// waitResult, together with WaitForEvent's error return, mirrors
// wait_for_event's EAGAIN ("recv_sock became readable")/EINTR ("a timer or
// notifier event fired, recheck state")/EFAULT ("poll(2) itself failed")
// return values: the first two are waitResult values, the third is a
// non-nil error.
type waitResult int

const (
	waitDataReady waitResult = iota
	waitStateChanged
)

// WaitForEvent polls both the receive socket and the notifier's read end,
// blocking pendingMu's caller for up to timeout (spec.md §5's
// "borrow-and-release" pattern: pendingMu must already be unlocked by the
// caller before this is invoked, and relocked immediately after it returns).
// It clears any pending notifier byte before blocking, exactly as
// wait_for_event does before dropping the pending mutex.
func (t *Transport) WaitForEvent(timeout time.Duration) (waitResult, error) {
	if t.isPendingRead.Swap(false) {
		_ = t.notify.Clear()
	}

	fds := []unix.PollFd{
		{Fd: int32(t.RecvSocket.FD()), Events: unix.POLLIN},
		{Fd: int32(t.notify.ReadFD()), Events: unix.POLLIN},
	}

	timeoutMs := int(timeout / time.Millisecond)
	if timeoutMs <= 0 && timeout > 0 {
		timeoutMs = 1
	}

	n, err := unix.Poll(fds, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return waitStateChanged, nil
		}
		return waitStateChanged, errnoFromSyscall(err)
	}
	if n > 0 && fds[0].Revents&unix.POLLIN != 0 {
		return waitDataReady, nil
	}
	return waitStateChanged, nil
}
