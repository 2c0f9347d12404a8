// Package carousel drives the storefront banner rotation server-side.
// The rotator auto-advances on a fixed interval, wraps modulo the
// banner count, and holds a short transition lock so manual navigation
// cannot re-enter mid-transition.
package carousel

import (
	"sync"
	"time"
)

const (
	// DefaultInterval matches the storefront's 10 second auto-slide.
	DefaultInterval = 10 * time.Second

	// transitionLock debounces navigation during the slide animation.
	transitionLock = 500 * time.Millisecond

	// notifyBuffer bounds the queue of pending onChange deliveries.
	notifyBuffer = 16
)

// Rotator tracks the current slide index for a banner collection.
// All navigation resets the auto-advance timer.
type Rotator struct {
	mu          sync.Mutex
	count       int
	index       int
	interval    time.Duration
	lockedUntil time.Time
	timer       *time.Timer
	stopped     bool

	notify chan int
	now    func() time.Time
}

// New creates a Rotator. onChange fires on every index change,
// including auto-advances; it may be nil. Deliveries run on a single
// goroutine in navigation order.
func New(interval time.Duration, onChange func(index int)) *Rotator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	r := &Rotator{
		interval: interval,
		now:      time.Now,
	}
	if onChange != nil {
		r.notify = make(chan int, notifyBuffer)
		go func() {
			for index := range r.notify {
				onChange(index)
			}
		}()
	}
	return r
}

// Start begins auto-advancing. Safe to call once; Stop tears it down.
func (r *Rotator) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = false
	r.resetTimerLocked()
}

// Stop cancels the auto-advance timer.
func (r *Rotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// SetCount updates the banner count after an admin mutation. The index
// is clamped back into range so a delete cannot strand it.
func (r *Rotator) SetCount(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if count < 0 {
		count = 0
	}
	r.count = count
	if r.index >= count {
		r.index = 0
	}
	r.resetTimerLocked()
}

// Index returns the current slide index.
func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Next advances one slide. Returns false when locked mid-transition or
// when there is nothing to rotate.
func (r *Rotator) Next() bool {
	return r.navigate(func(index, count int) int {
		return (index + 1) % count
	})
}

// Prev goes back one slide, wrapping to the end.
func (r *Rotator) Prev() bool {
	return r.navigate(func(index, count int) int {
		return (index - 1 + count) % count
	})
}

// GoTo jumps to a specific slide. Out-of-range targets and jumps to the
// current slide are rejected.
func (r *Rotator) GoTo(target int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count <= 1 || target < 0 || target >= r.count || target == r.index {
		return false
	}
	if r.now().Before(r.lockedUntil) {
		return false
	}
	r.setIndexLocked(target)
	return true
}

func (r *Rotator) navigate(step func(index, count int) int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count <= 1 {
		return false
	}
	if r.now().Before(r.lockedUntil) {
		return false
	}
	r.setIndexLocked(step(r.index, r.count))
	return true
}

// setIndexLocked records the new index, arms the transition lock, and
// restarts the auto-advance timer. Caller holds r.mu.
func (r *Rotator) setIndexLocked(index int) {
	r.index = index
	r.lockedUntil = r.now().Add(transitionLock)
	r.resetTimerLocked()
	r.queueChangeLocked(index)
}

// queueChangeLocked hands the new index to the notification goroutine.
// When the queue is full the oldest pending index is shed so the
// newest one still reaches subscribers. Caller holds r.mu, so there is
// a single producer. Sends never block.
func (r *Rotator) queueChangeLocked(index int) {
	if r.notify == nil {
		return
	}
	select {
	case r.notify <- index:
	default:
		select {
		case <-r.notify:
		default:
		}
		select {
		case r.notify <- index:
		default:
		}
	}
}

// resetTimerLocked cancels and rearms the auto-advance timer so manual
// navigation and collection changes never leave overlapping timers.
// Caller holds r.mu.
func (r *Rotator) resetTimerLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.stopped || r.count <= 1 {
		return
	}
	r.timer = time.AfterFunc(r.interval, r.autoAdvance)
}

func (r *Rotator) autoAdvance() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped || r.count <= 1 {
		return
	}
	// The auto-advance ignores the transition lock; only manual
	// navigation is debounced.
	r.setIndexLocked((r.index + 1) % r.count)
}
