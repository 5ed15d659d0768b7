package playback

import (
	"context"
	"sync"
	"time"

	"github.com/crinzping/feed-engine/internal/domain"
	"github.com/crinzping/feed-engine/internal/player"
	"github.com/crinzping/feed-engine/pkg/logger"
	"github.com/jonboulle/clockwork"
)

// LikeModel is the slice of the feed model a session writes engagement back
// to. Like must be a no-op when the item is already liked; the double-tap
// gesture never unlikes.
type LikeModel interface {
	IsLiked(itemID string) bool
	Like(itemID string)
}

// SessionOpts configures one screen's playback session.
type SessionOpts struct {
	Logger  logger.Logger
	Clock   clockwork.Clock
	Surface player.Surface
	Likes   LikeModel
	// Window overrides the double-tap window, DefaultDoubleTapWindow if zero.
	Window time.Duration
	// Muted is the screen's initial mute state. Feeds start muted.
	Muted bool
}

// Session wires one screen's tracker, controller and per-item gesture
// disambiguators together: scroll events select the active item, the
// controller keeps at most one player playing, taps resolve to
// play-pause/mute/like intents depending on the item kind.
//
// Mute state is owned by the session, one flag per screen instance, not
// process-wide.
type Session struct {
	log        logger.Logger
	clock      clockwork.Clock
	likes      LikeModel
	window     time.Duration
	tracker    *Tracker
	controller *Controller

	mu       sync.Mutex
	items    map[string]domain.FeedItem
	gestures map[string]*Disambiguator
	closed   bool
}

func NewSession(opts SessionOpts) *Session {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s := &Session{
		log:      opts.Logger,
		clock:    clock,
		likes:    opts.Likes,
		window:   opts.Window,
		items:    make(map[string]domain.FeedItem),
		gestures: make(map[string]*Disambiguator),
	}
	s.controller = NewController(opts.Logger, opts.Surface, opts.Muted)
	s.tracker = NewTracker(s.controller.SetActive)
	return s
}

// Render mounts one feed item into the session: items with a media URI get a
// lazily-created player, every item gets its tap disambiguator.
func (s *Session) Render(ctx context.Context, item domain.FeedItem) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.items[item.ID] = item
	if _, ok := s.gestures[item.ID]; !ok {
		s.gestures[item.ID] = s.newGestureLocked(item)
	}
	s.mu.Unlock()

	if uri := item.MediaURI(); uri != "" {
		s.controller.Render(ctx, item.ID, uri)
	}
}

// Unmount drops the item: its player is released and its pending gesture
// timer cancelled.
func (s *Session) Unmount(itemID string) {
	s.mu.Lock()
	if g, ok := s.gestures[itemID]; ok {
		g.Close()
		delete(s.gestures, itemID)
	}
	delete(s.items, itemID)
	s.mu.Unlock()

	s.controller.Unmount(itemID)
}

// ViewableChanged forwards a viewability event from the scroll surface.
func (s *Session) ViewableChanged(visibleIDs []string) {
	s.tracker.ViewableChanged(visibleIDs)
}

// SetFocused reflects tab switches and navigation. Blur stops playback
// without waiting for a scroll event.
func (s *Session) SetFocused(focused bool) {
	s.tracker.SetFocused(focused)
}

// Tap feeds a tap on the item's surface into its disambiguator.
func (s *Session) Tap(itemID string) {
	s.mu.Lock()
	g := s.gestures[itemID]
	s.mu.Unlock()
	if g != nil {
		g.Tap()
	}
}

// ToggleMute flips the screen-wide mute flag, affecting whichever item is
// active. It never changes which item is active and never starts playback.
func (s *Session) ToggleMute() {
	s.controller.SetMuted(!s.controller.Muted())
}

func (s *Session) SetMuted(muted bool) { s.controller.SetMuted(muted) }
func (s *Session) Muted() bool         { return s.controller.Muted() }

// ActiveID returns the id of the item currently eligible to play.
func (s *Session) ActiveID() string { return s.controller.Active() }

// IsPlaying reports whether the item's player is producing media right now.
func (s *Session) IsPlaying(itemID string) bool { return s.controller.IsPlaying(itemID) }

// Close releases every player and cancels every pending gesture timer. Must
// run on all exit paths of the owning screen.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for id, g := range s.gestures {
		g.Close()
		delete(s.gestures, id)
	}
	s.mu.Unlock()

	s.controller.Close()
}

// newGestureLocked builds the disambiguator for one item. Single tap on a
// reel surface toggles play/pause; on a post tile it toggles the shared mute.
// Double tap likes, and only likes: the precondition swallows double taps on
// already-liked items.
func (s *Session) newGestureLocked(item domain.FeedItem) *Disambiguator {
	id := item.ID
	var single func()
	switch item.Kind {
	case domain.KindReel:
		single = func() { s.controller.TogglePlay(id) }
	case domain.KindImagePost:
		single = func() { s.ToggleMute() }
	default:
		single = nil
	}

	var double func()
	var can func() bool
	if s.likes != nil {
		double = func() { s.likes.Like(id) }
		can = func() bool { return !s.likes.IsLiked(id) }
	}

	return NewDisambiguator(GestureOpts{
		Clock:        s.clock,
		Window:       s.window,
		OnSingleTap:  single,
		OnDoubleTap:  double,
		CanDoubleTap: can,
	})
}
