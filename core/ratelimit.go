package core

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Limiter defaults, matching the API's published per-key allowance.
const (
	DefaultMaxConcurrent = 5
	DefaultPerWindow     = 60
	DefaultWindow        = time.Minute
)

// LimiterConfig configures a Limiter. Zero values select the defaults.
type LimiterConfig struct {
	MaxConcurrent int           // ceiling on concurrently executing tasks
	PerWindow     int           // ceiling on task starts per window
	Window        time.Duration // fixed window length
}

// Limiter bounds the number of concurrently executing tasks and the number
// of tasks started within the current fixed time window. Tasks that cannot
// start immediately queue in FIFO order; the queue is unbounded and no task
// is ever dropped. Limiter is safe for concurrent use.
//
// Invariants: active <= MaxConcurrent and windowCount <= PerWindow at all
// times. Both counters are guarded by mu.
type Limiter struct {
	cfg LimiterConfig

	mu          sync.Mutex
	active      int
	windowCount int
	windowStart time.Time
	waiters     *list.List // of *waiter, FIFO
	timer       *time.Timer

	now func() time.Time // test hook
}

type waiter struct {
	ready chan struct{} // closed when the slot is granted
}

// NewLimiter creates a Limiter with the given configuration.
func NewLimiter(cfg LimiterConfig) *Limiter {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	if cfg.PerWindow <= 0 {
		cfg.PerWindow = DefaultPerWindow
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	return &Limiter{
		cfg:     cfg,
		waiters: list.New(),
		now:     time.Now,
	}
}

// Do runs task once a slot is available and releases the slot when the task
// returns. The returned error is exactly the task's own error: the limiter
// delays starts but never alters outcomes, and one task's failure has no
// effect on queued siblings. If ctx is done before a slot frees, the task
// never starts and ctx.Err() is returned.
func (l *Limiter) Do(ctx context.Context, task func() error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return task()
}

// Acquire blocks until a slot is available or ctx is done. Waiters are
// granted slots strictly in arrival order.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	l.rollWindowLocked()
	if l.waiters.Len() == 0 && l.active < l.cfg.MaxConcurrent && l.windowCount < l.cfg.PerWindow {
		l.active++
		l.windowCount++
		l.mu.Unlock()
		return nil
	}

	w := &waiter{ready: make(chan struct{})}
	elem := l.waiters.PushBack(w)
	l.armTimerLocked()
	l.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		select {
		case <-w.ready:
			// Granted while cancelling; return the slot.
			l.mu.Unlock()
			l.Release()
		default:
			l.waiters.Remove(elem)
			l.mu.Unlock()
		}
		return ctx.Err()
	}
}

// Release frees a slot and starts queued tasks that now fit.
func (l *Limiter) Release() {
	l.mu.Lock()
	if l.active > 0 {
		l.active--
	}
	l.dispatchLocked()
	l.mu.Unlock()
}

// InFlight reports the number of currently executing tasks.
func (l *Limiter) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Queued reports the number of tasks waiting for a slot.
func (l *Limiter) Queued() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.waiters.Len()
}

// rollWindowLocked resets the window counter when the fixed interval has
// elapsed. The new window start stays aligned to the interval grid so an
// idle limiter does not drift.
func (l *Limiter) rollWindowLocked() {
	now := l.now()
	if l.windowStart.IsZero() {
		l.windowStart = now
		return
	}
	elapsed := now.Sub(l.windowStart)
	if elapsed >= l.cfg.Window {
		l.windowStart = l.windowStart.Add(elapsed - elapsed%l.cfg.Window)
		l.windowCount = 0
	}
}

// dispatchLocked grants slots to queued waiters, oldest first, until either
// bound is hit again.
func (l *Limiter) dispatchLocked() {
	l.rollWindowLocked()
	for l.waiters.Len() > 0 && l.active < l.cfg.MaxConcurrent && l.windowCount < l.cfg.PerWindow {
		elem := l.waiters.Front()
		l.waiters.Remove(elem)
		w := elem.Value.(*waiter)
		l.active++
		l.windowCount++
		close(w.ready)
	}
	l.armTimerLocked()
}

// armTimerLocked schedules a dispatch at the next window rollover when
// waiters are parked purely on window capacity. Waiters parked on the
// concurrency bound are woken by Release instead.
func (l *Limiter) armTimerLocked() {
	if l.waiters.Len() == 0 || l.windowCount < l.cfg.PerWindow {
		return
	}
	if l.timer != nil {
		l.timer.Stop()
	}
	wait := l.cfg.Window - l.now().Sub(l.windowStart)
	if wait < 0 {
		wait = 0
	}
	l.timer = time.AfterFunc(wait, func() {
		l.mu.Lock()
		l.dispatchLocked()
		l.mu.Unlock()
	})
}
