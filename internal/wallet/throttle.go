package wallet

import (
	"sync"
	"time"
)

// Throttle is a hard per-operation gate: a call admitted for an operation
// blocks further calls for that operation until the minimum interval elapses.
// Denied calls leave state untouched. This is deliberately not a token
// bucket; there is no burst and no queueing, callers fail fast instead.
type Throttle struct {
	mu       sync.Mutex
	last     map[Operation]time.Time
	interval time.Duration
	now      func() time.Time
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		last:     make(map[Operation]time.Time),
		interval: interval,
		now:      time.Now,
	}
}

// Admit reports whether a call for op may proceed now, recording the
// admission time when it may. Safe for concurrent use.
func (t *Throttle) Admit(op Operation) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if prev, ok := t.last[op]; ok && now.Sub(prev) < t.interval {
		return false
	}
	t.last[op] = now
	return true
}
