package playback

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDoubleTapWindow is how long after a tap a second tap still counts as
// a double tap.
const DefaultDoubleTapWindow = 300 * time.Millisecond

type GestureOpts struct {
	Clock  clockwork.Clock
	Window time.Duration
	// OnSingleTap runs when the window elapses without a second tap.
	OnSingleTap func()
	// OnDoubleTap runs on the second tap of a pair, subject to CanDoubleTap.
	OnDoubleTap func()
	// CanDoubleTap guards the double-tap action. When it returns false the
	// double tap is swallowed silently, so there is no toggle-off path.
	CanDoubleTap func() bool
}

// Disambiguator turns a raw tap stream on one media surface into exactly one
// of single-tap or double-tap per tap pair. At most one single-tap timer is
// pending at any time; a new tap always cancels it before choosing a branch.
type Disambiguator struct {
	clock  clockwork.Clock
	window time.Duration
	single func()
	double func()
	can    func() bool

	mu      sync.Mutex
	lastTap time.Time
	hasTap  bool
	pending clockwork.Timer
	gen     uint64
	closed  bool
}

func NewDisambiguator(opts GestureOpts) *Disambiguator {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	window := opts.Window
	if window <= 0 {
		window = DefaultDoubleTapWindow
	}
	return &Disambiguator{
		clock:  clock,
		window: window,
		single: opts.OnSingleTap,
		double: opts.OnDoubleTap,
		can:    opts.CanDoubleTap,
	}
}

// Tap feeds one tap event into the disambiguator.
func (d *Disambiguator) Tap() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}

	now := d.clock.Now()
	isDouble := d.hasTap && now.Sub(d.lastTap) < d.window
	d.cancelPendingLocked()

	if isDouble {
		d.hasTap = false
		fire := d.can == nil || d.can()
		double := d.double
		d.mu.Unlock()
		if fire && double != nil {
			double()
		}
		return
	}

	d.hasTap = true
	d.lastTap = now
	gen := d.gen
	d.pending = d.clock.AfterFunc(d.window, func() { d.fireSingle(gen) })
	d.mu.Unlock()
}

func (d *Disambiguator) fireSingle(gen uint64) {
	d.mu.Lock()
	if d.closed || gen != d.gen || !d.hasTap {
		d.mu.Unlock()
		return
	}
	d.hasTap = false
	d.pending = nil
	single := d.single
	d.mu.Unlock()

	if single != nil {
		single()
	}
}

// Close cancels any pending timer so no action can fire against a surface
// that no longer exists.
func (d *Disambiguator) Close() {
	d.mu.Lock()
	d.closed = true
	d.hasTap = false
	d.cancelPendingLocked()
	d.mu.Unlock()
}

// cancelPendingLocked stops the armed timer and bumps the generation so an
// already-fired callback racing for the lock becomes a no-op.
func (d *Disambiguator) cancelPendingLocked() {
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.gen++
}
