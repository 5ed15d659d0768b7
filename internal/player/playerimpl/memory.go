package playerimpl

import (
	"context"
	"sync"

	"github.com/crinzping/feed-engine/internal/player"
	apperrors "github.com/crinzping/feed-engine/pkg/errors"
	"github.com/crinzping/feed-engine/pkg/logger"
)

// Memory is an in-process player surface. The mobile shell swaps in the real
// native bridge; everything above the Surface interface behaves identically.
type Memory struct {
	Logger logger.Logger

	mu      sync.Mutex
	badURIs map[string]struct{}
	handles []*handle
	open    int
}

var _ player.Surface = (*Memory)(nil)

func New(log logger.Logger) *Memory {
	return &Memory{
		Logger:  log,
		badURIs: make(map[string]struct{}),
	}
}

// FailURI marks a URI as undecodable so Create returns a media load failure,
// mirroring a native decode error.
func (m *Memory) FailURI(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.badURIs[uri] = struct{}{}
}

// OpenHandles reports how many created handles have not been released yet.
func (m *Memory) OpenHandles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// PlayingCount reports how many handles are in the playing state right now.
func (m *Memory) PlayingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, h := range m.handles {
		if h.IsPlaying() {
			n++
		}
	}
	return n
}

func (m *Memory) Create(ctx context.Context, uri string) (player.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if uri == "" {
		return nil, apperrors.Wrap(apperrors.ErrMediaLoadFailure, "empty media uri")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, bad := m.badURIs[uri]; bad {
		return nil, apperrors.Wrap(apperrors.ErrMediaLoadFailure, "cannot decode "+uri)
	}
	m.open++
	h := &handle{surface: m, uri: uri}
	m.handles = append(m.handles, h)
	return h, nil
}

type handle struct {
	surface *Memory

	mu       sync.Mutex
	uri      string
	playing  bool
	muted    bool
	released bool
}

func (h *handle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return apperrors.Wrap(apperrors.ErrMediaLoadFailure, "play on released handle")
	}
	h.playing = true
	return nil
}

func (h *handle) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return apperrors.Wrap(apperrors.ErrMediaLoadFailure, "pause on released handle")
	}
	h.playing = false
	return nil
}

func (h *handle) SetMuted(muted bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.muted = muted
}

func (h *handle) IsPlaying() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing && !h.released
}

func (h *handle) Release() {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return
	}
	h.released = true
	h.playing = false
	h.mu.Unlock()

	h.surface.mu.Lock()
	h.surface.open--
	h.surface.mu.Unlock()
}
