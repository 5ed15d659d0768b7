package playback

import "sync"

// Tracker selects the single item of one scrollable list that is eligible to
// play media. The scroll surface reports which item ids currently meet the
// visibility threshold, ordered top to bottom; the first one wins and every
// report replaces the previous selection outright.
//
// Each independently-scrollable list owns exactly one Tracker. Carousels
// nested inside a feed item track their own position with Carousel instead.
type Tracker struct {
	mu       sync.Mutex
	focused  bool
	viewable string // last scroll-derived selection, survives blur
	active   string // effective selection reported downstream
	onChange func(activeID string)
}

// NewTracker builds a focused tracker. onChange receives the new active id,
// "" meaning no item is active.
func NewTracker(onChange func(activeID string)) *Tracker {
	return &Tracker{focused: true, onChange: onChange}
}

// ViewableChanged ingests one viewability event. Empty reports are ignored,
// matching the scroll surface which only fires for non-empty viewable sets.
func (t *Tracker) ViewableChanged(visibleIDs []string) {
	if len(visibleIDs) == 0 {
		return
	}
	t.mu.Lock()
	t.viewable = visibleIDs[0]
	t.emitLocked()
}

// SetFocused reflects the hosting screen gaining or losing focus. Losing
// focus reports no-active regardless of scroll state; regaining focus
// restores the last scroll-derived selection without waiting for a scroll
// event.
func (t *Tracker) SetFocused(focused bool) {
	t.mu.Lock()
	t.focused = focused
	t.emitLocked()
}

// Active returns the current effective selection, "" when none.
func (t *Tracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// emitLocked recomputes the effective selection and notifies on change.
// Unlocks t.mu before invoking the callback.
func (t *Tracker) emitLocked() {
	effective := ""
	if t.focused {
		effective = t.viewable
	}
	if effective == t.active {
		t.mu.Unlock()
		return
	}
	t.active = effective
	onChange := t.onChange
	t.mu.Unlock()

	if onChange != nil {
		onChange(effective)
	}
}
