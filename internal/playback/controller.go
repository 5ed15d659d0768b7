package playback

import (
	"context"
	"sync"

	"github.com/crinzping/feed-engine/internal/player"
	"github.com/crinzping/feed-engine/pkg/logger"
)

// Controller owns every player of one list and enforces the core invariant:
// at most one underlying player is in the playing state at any instant. When
// the active item changes from A to B, A is paused strictly before B's play
// call.
//
// Players are created lazily when their item is rendered and are tied to that
// render's lifetime: unmount releases the handle and a later remount creates
// a fresh one.
type Controller struct {
	log     logger.Logger
	surface player.Surface

	mu      sync.Mutex
	entries map[string]*entry
	active  string
	muted   bool
	closed  bool
}

type entry struct {
	uri    string
	handle player.Handle
	failed bool
}

func NewController(log logger.Logger, surface player.Surface, muted bool) *Controller {
	return &Controller{
		log:     log,
		surface: surface,
		entries: make(map[string]*entry),
		muted:   muted,
	}
}

// Render registers an item whose media surface just mounted and lazily
// creates its player. A creation failure degrades the item to its poster
// state: it is remembered as failed, never plays, and the rest of the list is
// untouched. If the item is already the active one, playback starts
// immediately.
func (c *Controller) Render(ctx context.Context, itemID, uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if e, ok := c.entries[itemID]; ok && e.uri == uri {
		return
	}
	// URI changed under the same id: the old handle must go first.
	if e, ok := c.entries[itemID]; ok && e.handle != nil {
		e.handle.Release()
	}

	e := &entry{uri: uri}
	c.entries[itemID] = e

	handle, err := c.surface.Create(ctx, uri)
	if err != nil {
		e.failed = true
		c.log.Warn("player creation failed, item degrades to poster",
			"item_id", itemID, "uri", uri, "error", err)
		return
	}
	e.handle = handle

	if c.active == itemID {
		c.startLocked(itemID, e)
	}
}

// Unmount releases the item's player. The next Render for the same id gets a
// fresh handle.
func (c *Controller) Unmount(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[itemID]; ok {
		if e.handle != nil {
			e.handle.Release()
		}
		delete(c.entries, itemID)
	}
}

// SetActive names the item eligible to play, "" for none. The previously
// active player is paused before the new one starts.
func (c *Controller) SetActive(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || itemID == c.active {
		return
	}

	if old, ok := c.entries[c.active]; ok && old.handle != nil {
		if err := old.handle.Pause(); err != nil {
			c.log.Warn("pause failed", "item_id", c.active, "error", err)
		}
	}
	c.active = itemID

	if next, ok := c.entries[itemID]; ok {
		c.startLocked(itemID, next)
	}
}

// SetMuted applies the shared mute flag to whichever player is active. It
// never starts or stops playback.
func (c *Controller) SetMuted(muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = muted
	if e, ok := c.entries[c.active]; ok && e.handle != nil {
		e.handle.SetMuted(muted)
	}
}

func (c *Controller) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// TogglePlay pauses the item if it is playing and resumes it otherwise, the
// single-tap action on a reel surface. Only the active item can be resumed;
// a paused non-active item stays paused.
func (c *Controller) TogglePlay(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[itemID]
	if !ok || e.handle == nil || e.failed || c.closed {
		return
	}
	if e.handle.IsPlaying() {
		if err := e.handle.Pause(); err != nil {
			c.log.Warn("pause failed", "item_id", itemID, "error", err)
		}
		return
	}
	if c.active != itemID {
		return
	}
	c.startLocked(itemID, e)
}

// IsPlaying reports whether the item's player is currently playing.
func (c *Controller) IsPlaying(itemID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[itemID]
	return ok && e.handle != nil && e.handle.IsPlaying()
}

// Active returns the currently active item id, "" when none.
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Close releases every handle. The controller is unusable afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for id, e := range c.entries {
		if e.handle != nil {
			e.handle.Release()
		}
		delete(c.entries, id)
	}
	c.active = ""
}

// startLocked applies the mute flag and starts playback, degrading the entry
// on a play failure instead of surfacing it to the list.
func (c *Controller) startLocked(itemID string, e *entry) {
	if e.handle == nil || e.failed {
		return
	}
	e.handle.SetMuted(c.muted)
	if err := e.handle.Play(); err != nil {
		e.failed = true
		c.log.Warn("play failed, item degrades to poster",
			"item_id", itemID, "uri", e.uri, "error", err)
	}
}
