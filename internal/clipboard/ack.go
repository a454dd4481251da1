package clipboard

import (
	"sync"
	"time"
)

// DefaultCopiedTTL is how long a copy stays acknowledged.
const DefaultCopiedTTL = 2 * time.Second

// Ack is the transient "copied" acknowledgement. It reports true for
// ttl after Mark and reverts on its own.
type Ack struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	until time.Time
}

// NewAck creates an acknowledgement with the given ttl. A nil now uses
// time.Now.
func NewAck(ttl time.Duration, now func() time.Time) *Ack {
	if ttl <= 0 {
		ttl = DefaultCopiedTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Ack{ttl: ttl, now: now}
}

// Mark sets the acknowledgement, restarting the ttl.
func (a *Ack) Mark() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.until = a.now().Add(a.ttl)
}

// Active reports whether the acknowledgement is still set.
func (a *Ack) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.now().Before(a.until)
}

// Reset clears the acknowledgement.
func (a *Ack) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.until = time.Time{}
}

// TTL returns the acknowledgement duration.
func (a *Ack) TTL() time.Duration {
	return a.ttl
}
