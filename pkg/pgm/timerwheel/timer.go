// Package timerwheel implements the timer collaborator spec.md names as
// external ("the timer") but which drives two dispatcher-visible behaviors:
// periodic SPM-ambient wake-ups, and unrecoverable-loss detection that sets
// a transport's reset flag (spec.md §4.7 reset fast-path, §7 error policy).
package timerwheel

import (
	"sync"
	"time"

	"github.com/jabolina/go-pgm/pkg/pgm/types"
)

// Resetter is the minimal slice of core.Transport the timer needs to signal
// an unrecoverable loss; defined here (rather than importing core) to avoid
// a package cycle, per the collaborator-interface pattern spec.md §6 uses
// throughout.
type Resetter interface {
	MarkReset(tsi types.TSI)
}

// SPMTimer fires on a fixed ambient interval and tracks a per-peer
// NAK-repair deadline list; if a peer's deadline is exceeded more than
// maxRetries times the loss is considered unrecoverable and the timer calls
// MarkReset, which is what pgm_timer_dispatch does in the original via the
// NAK backoff state machine (out of scope here, spec.md §1).
type SPMTimer struct {
	mu         sync.Mutex
	interval   time.Duration
	lastFire   time.Time
	deadlines  map[types.TSI]*repairDeadline
	maxRetries int
}

type repairDeadline struct {
	at      time.Time
	retries int
}

// NewSPMTimer creates a timer that fires every interval and allows up to
// maxRetries missed repair deadlines per peer before declaring a reset.
func NewSPMTimer(interval time.Duration, maxRetries int) *SPMTimer {
	return &SPMTimer{
		interval:   interval,
		lastFire:   time.Now(),
		deadlines:  make(map[types.TSI]*repairDeadline),
		maxRetries: maxRetries,
	}
}

// Check reports whether the timer is due (spec.md §4.7 step 1).
func (s *SPMTimer) Check() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastFire) >= s.interval
}

// Dispatch runs the due timer: advances lastFire and evaluates every
// tracked repair deadline, marking the transport reset on peers that have
// exhausted their retries.
func (s *SPMTimer) Dispatch(r Resetter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.lastFire = now
	for tsi, d := range s.deadlines {
		if now.Before(d.at) {
			continue
		}
		d.retries++
		if d.retries > s.maxRetries {
			delete(s.deadlines, tsi)
			r.MarkReset(tsi)
			continue
		}
		d.at = now.Add(s.interval)
	}
}

// Prepare is called after Dispatch to compute the next wake-up (spec.md
// §4.7 step 1); SPMTimer has nothing extra to precompute beyond lastFire,
// already advanced in Dispatch.
func (s *SPMTimer) Prepare() {}

// ExpirationMicros returns the time remaining until the timer is next due,
// used as the poll timeout in wait_for_event (spec.md §4.7).
func (s *SPMTimer) ExpirationMicros() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := s.interval - time.Since(s.lastFire)
	if remaining <= 0 {
		return time.Microsecond
	}
	return remaining
}

// TrackRepair registers (or refreshes) a NAK-repair deadline for a peer.
// Called by the NAK collaborator hooks (out of scope here) when a receiver
// would, in the full protocol, start a repair-data timeout.
func (s *SPMTimer) TrackRepair(tsi types.TSI, deadline time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deadlines[tsi] = &repairDeadline{at: deadline}
}

// Forget drops a peer's tracked repair deadline, e.g. once its loss has
// already been reported and the peer is being torn down.
func (s *SPMTimer) Forget(tsi types.TSI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.deadlines, tsi)
}
