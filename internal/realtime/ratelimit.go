package realtime

import (
	"errors"
	"sync"
	"time"
)

// ErrThrottled rejects an inbound event that exceeded the connection's
// fixed-window budget.
var ErrThrottled = errors.New("rate limit exceeded")

const (
	DefaultLimit      = 20
	DefaultWindowSize = time.Second

	// staleWindowAge is how long a connection's counter may sit idle before
	// the fallback sweep drops it. Covers missed close events.
	staleWindowAge = 60 * time.Second
)

type window struct {
	count       int
	windowStart time.Time
}

// Limiter throttles inbound events per connection with a fixed window
// counter: O(1) state per connection, minor inaccuracy at window boundaries
// accepted. State is held in a keyed map behind a mutex; each connection's
// entry is only ever touched from that connection's read loop.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*window

	now func() time.Time // stubbed in tests
}

func NewLimiter(limit int, windowSize time.Duration) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &Limiter{
		limit:   limit,
		window:  windowSize,
		entries: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow records one inbound event for the connection. It returns
// ErrThrottled when the current window's budget is spent; the event must not
// be processed in that case.
func (l *Limiter) Allow(connID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.entries[connID]
	if !ok {
		w = &window{windowStart: now}
		l.entries[connID] = w
	}

	if now.Sub(w.windowStart) >= l.window {
		w.count = 0
		w.windowStart = now
	}

	if w.count >= l.limit {
		return ErrThrottled
	}
	w.count++
	return nil
}

// Remove drops the connection's counter state. Called on disconnect; this is
// the primary cleanup path.
func (l *Limiter) Remove(connID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, connID)
}

// Sweep drops counters that saw no activity for longer than staleWindowAge.
// It is the fallback for connections whose close event never arrived and
// runs periodically from the scheduler. Returns the number of entries
// removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for id, w := range l.entries {
		if now.Sub(w.windowStart) > staleWindowAge {
			delete(l.entries, id)
			removed++
		}
	}
	return removed
}

func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
