package composer

import (
	"context"
	"sync"

	"github.com/crinzping/feed-engine/internal/player"
	apperrors "github.com/crinzping/feed-engine/pkg/errors"
	"github.com/crinzping/feed-engine/pkg/retry"
)

// Preview is the confirmation stage of a draft. It owns at most one audio and
// one video handle; both are released exactly once, on whichever of Confirm,
// Cancel or Composer.Close happens first.
type Preview struct {
	c *Composer

	mu       sync.Mutex
	audio    player.Handle
	video    player.Handle
	released bool
}

// AudioHandle exposes the preview's audio player, nil when the draft carries
// no audio or the player failed to open.
func (p *Preview) AudioHandle() player.Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return nil
	}
	return p.audio
}

// VideoHandle exposes the preview's video player under the same rules.
func (p *Preview) VideoHandle() player.Handle {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return nil
	}
	return p.video
}

// ToggleAudio plays or pauses the preview audio. No-op when there is none.
func (p *Preview) ToggleAudio() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released || p.audio == nil {
		return nil
	}
	if p.audio.IsPlaying() {
		return p.audio.Pause()
	}
	return p.audio.Play()
}

// Confirm stops and releases all preview media, then submits the draft. On
// success the draft is reset and the success toast shown; on failure the
// composer returns to editing with the draft intact so the user can retry.
func (p *Preview) Confirm(ctx context.Context) error {
	p.release()

	c := p.c
	c.mu.Lock()
	submission := c.draft.ToSubmission(c.author)
	c.mu.Unlock()

	if c.limiter != nil && !c.limiter.Allow(c.author) {
		p.backToEditing()
		return apperrors.Wrap(apperrors.ErrValidation, "you are posting too fast, slow down")
	}

	err := retry.Do(ctx, c.log, "submit", func() error {
		return c.sink.Submit(ctx, submission)
	}, c.retryCfg)
	if err != nil {
		c.log.Error("submission failed", "kind", submission.Kind, "error", err)
		p.backToEditing()
		return err
	}

	c.finishConfirm()
	return nil
}

// Cancel releases all preview media and returns to editing. The draft is
// preserved.
func (p *Preview) Cancel() {
	p.release()
	p.backToEditing()
}

func (p *Preview) backToEditing() {
	c := p.c
	c.mu.Lock()
	if c.preview == p {
		c.preview = nil
		c.state = StateEditing
	}
	c.mu.Unlock()
}

// release pauses and releases both handles, exactly once.
func (p *Preview) release() {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return
	}
	p.released = true
	audio, video := p.audio, p.video
	p.audio, p.video = nil, nil
	p.mu.Unlock()

	for _, h := range []player.Handle{audio, video} {
		if h == nil {
			continue
		}
		if err := h.Pause(); err != nil {
			p.c.log.Warn("preview pause on release failed", "error", err)
		}
		h.Release()
	}
}
