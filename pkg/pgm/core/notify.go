package core

import (
	"os"
	"sync"
)

// Notifier is the in-process notification collaborator (spec.md §3/§6,
// pgm_notify_t): a pollable object whose read end can be signalled so a
// blocked wait_for_event wakes even with no socket traffic.
type Notifier interface {
	IsValid() bool
	Send() error
	Clear() error
	ReadFD() int
	Close() error
}

// PipeNotifier is the idiomatic Go/Unix stand-in for pgm_notify_t: a
// self-pipe whose read end is watched by unix.Poll alongside the receive
// socket (design note §9; a Go channel cannot be folded into the same
// poll(2) call as a raw socket fd, which is why a real os.Pipe is used here
// instead).
type PipeNotifier struct {
	mu          sync.Mutex
	r, w        *os.File
	readPending bool
}

// NewPipeNotifier opens the self-pipe.
func NewPipeNotifier() (*PipeNotifier, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &PipeNotifier{r: r, w: w}, nil
}

// IsValid reports whether the notifier's file descriptors are still open.
func (p *PipeNotifier) IsValid() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r != nil && p.w != nil
}

// Send writes one byte to the pipe if not already pending, waking any
// poll(2) waiter on the read end.
func (p *PipeNotifier) Send() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readPending || p.w == nil {
		return nil
	}
	if _, err := p.w.Write([]byte{1}); err != nil {
		return err
	}
	p.readPending = true
	return nil
}

// Clear drains the pipe, undoing a pending Send.
func (p *PipeNotifier) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.readPending || p.r == nil {
		return nil
	}
	buf := make([]byte, 1)
	_, err := p.r.Read(buf)
	p.readPending = false
	return err
}

// ReadFD returns the file descriptor unix.Poll should watch for readability.
func (p *PipeNotifier) ReadFD() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.r == nil {
		return -1
	}
	return int(p.r.Fd())
}

// Close releases both pipe ends, e.g. to unblock an in-flight poll(2) on
// transport teardown.
func (p *PipeNotifier) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var err error
	if p.w != nil {
		err = p.w.Close()
		p.w = nil
	}
	if p.r != nil {
		if rerr := p.r.Close(); err == nil {
			err = rerr
		}
		p.r = nil
	}
	return err
}
