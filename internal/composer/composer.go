package composer

import (
	"context"
	"sync"
	"time"

	"github.com/crinzping/feed-engine/internal/backend"
	"github.com/crinzping/feed-engine/internal/domain"
	"github.com/crinzping/feed-engine/internal/media"
	"github.com/crinzping/feed-engine/internal/player"
	"github.com/crinzping/feed-engine/internal/ratelimit"
	apperrors "github.com/crinzping/feed-engine/pkg/errors"
	"github.com/crinzping/feed-engine/pkg/logger"
	"github.com/crinzping/feed-engine/pkg/retry"
	"github.com/jonboulle/clockwork"
)

type State string

const (
	StateEditing    State = "editing"
	StatePreviewing State = "previewing"
)

const (
	DefaultToastDuration    = 2 * time.Second
	DefaultMaxVideoDuration = 60 * time.Second
)

type Opts struct {
	Logger      logger.Logger
	Clock       clockwork.Clock
	Picker      media.Picker
	Thumbnailer media.Thumbnailer
	Surface     player.Surface
	Sink        backend.Sink
	Limiter     ratelimit.Limiter
	Author      string
	Kind        domain.Kind

	// Zero values fall back to the defaults above / domain.MaxPostImages.
	MaxImages        int
	MaxVideoDuration time.Duration
	ToastDuration    time.Duration
	Retry            retry.Config
}

// Composer drives one compose tab through its lifecycle:
//
//	Editing -> (validate) -> Previewing -> confirm|cancel -> Editing
//
// A confirmed submission resets the draft and bumps the reset token so child
// inputs remount clean. The draft lives only in memory; it never survives a
// restart.
type Composer struct {
	log     logger.Logger
	clock   clockwork.Clock
	picker  media.Picker
	thumbs  media.Thumbnailer
	surface player.Surface
	sink    backend.Sink
	limiter ratelimit.Limiter
	author  string

	maxImages int
	maxVideo  time.Duration
	toastDur  time.Duration
	retryCfg  retry.Config

	mu           sync.Mutex
	draft        *domain.Draft
	state        State
	preview      *Preview
	resetToken   int
	toastVisible bool
	toastTimer   clockwork.Timer
	closed       bool
}

func New(opts Opts) *Composer {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	maxImages := opts.MaxImages
	if maxImages <= 0 {
		maxImages = domain.MaxPostImages
	}
	maxVideo := opts.MaxVideoDuration
	if maxVideo <= 0 {
		maxVideo = DefaultMaxVideoDuration
	}
	toastDur := opts.ToastDuration
	if toastDur <= 0 {
		toastDur = DefaultToastDuration
	}
	retryCfg := opts.Retry
	if retryCfg.MaxRetries == 0 && retryCfg.InitialInterval == 0 {
		retryCfg = retry.DefaultConfig()
	}
	return &Composer{
		log:       opts.Logger,
		clock:     clock,
		picker:    opts.Picker,
		thumbs:    opts.Thumbnailer,
		surface:   opts.Surface,
		sink:      opts.Sink,
		limiter:   opts.Limiter,
		author:    opts.Author,
		maxImages: maxImages,
		maxVideo:  maxVideo,
		toastDur:  toastDur,
		retryCfg:  retryCfg,
		draft:     domain.NewDraft(opts.Kind),
		state:     StateEditing,
	}
}

// Draft returns a snapshot of the current draft.
func (c *Composer) Draft() domain.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := *c.draft
	d.Images = append([]string(nil), c.draft.Images...)
	if c.draft.Audio != nil {
		a := *c.draft.Audio
		d.Audio = &a
	}
	return d
}

func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ResetToken increments on every confirmed submission; child inputs keyed on
// it remount clean.
func (c *Composer) ResetToken() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resetToken
}

func (c *Composer) ToastVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toastVisible
}

func (c *Composer) SetMessage(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Message = msg
}

func (c *Composer) SetDescription(desc string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Description = desc
}

func (c *Composer) SetTags(tags string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Tags = tags
}

// AddImages opens the image picker for the remaining carousel slots. A
// cancelled picker is a silent no-op; a denied permission surfaces through
// the gate and adds nothing.
func (c *Composer) AddImages(ctx context.Context) error {
	c.mu.Lock()
	remaining := c.maxImages - len(c.draft.Images)
	c.mu.Unlock()
	if remaining <= 0 {
		return apperrors.Wrap(apperrors.ErrValidation, "image limit reached")
	}

	uris, err := c.picker.PickImages(ctx, remaining)
	if err != nil {
		if apperrors.IsCaptureCancelled(err) {
			return nil
		}
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.draft.Images)+len(uris) > c.maxImages {
		uris = uris[:c.maxImages-len(c.draft.Images)]
	}
	c.draft.Images = append(c.draft.Images, uris...)
	return nil
}

func (c *Composer) RemoveImage(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.draft.Images) {
		return
	}
	c.draft.Images = append(c.draft.Images[:index], c.draft.Images[index+1:]...)
}

// ToggleAudio attaches an audio file to the draft, or detaches the current
// one when already set.
func (c *Composer) ToggleAudio(ctx context.Context) error {
	c.mu.Lock()
	if c.draft.Audio != nil {
		c.draft.Audio = nil
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	picked, err := c.picker.PickAudioFile(ctx)
	if err != nil {
		if apperrors.IsCaptureCancelled(err) {
			return nil
		}
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Audio = &domain.AudioAttachment{
		URI:         picked.URI,
		SizeBytes:   picked.SizeBytes,
		DisplayName: picked.DisplayName,
	}
	return nil
}

// SelectVideo picks the reel video and derives an auto thumbnail. A failed
// thumbnail extraction leaves the thumbnail empty rather than failing the
// selection.
func (c *Composer) SelectVideo(ctx context.Context) error {
	uri, err := c.picker.PickVideo(ctx, c.maxVideo)
	if err != nil {
		if apperrors.IsCaptureCancelled(err) {
			return nil
		}
		return err
	}

	thumb := ""
	if c.thumbs != nil {
		thumb, err = c.thumbs.Thumbnail(ctx, uri)
		if err != nil {
			c.log.Warn("thumbnail generation failed", "video", uri, "error", err)
			thumb = ""
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.VideoURI = uri
	c.draft.ThumbnailURI = thumb
	return nil
}

// SelectThumbnail replaces the auto thumbnail with a picked image. Requires a
// selected video first.
func (c *Composer) SelectThumbnail(ctx context.Context) error {
	c.mu.Lock()
	hasVideo := c.draft.VideoURI != ""
	c.mu.Unlock()
	if !hasVideo {
		return apperrors.Wrap(apperrors.ErrValidation, "select a video first")
	}

	uris, err := c.picker.PickImages(ctx, 1)
	if err != nil {
		if apperrors.IsCaptureCancelled(err) {
			return nil
		}
		return err
	}
	if len(uris) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.ThumbnailURI = uris[0]
	return nil
}

// BeginPreview validates the draft and enters the preview stage,
// instantiating real players for any audio/video the draft references. Any
// previously open preview is released first, so fresh handles are guaranteed.
func (c *Composer) BeginPreview(ctx context.Context) (*Preview, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, apperrors.New("composer closed")
	}
	if err := c.draft.Validate(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	old := c.preview
	c.mu.Unlock()

	if old != nil {
		old.release()
	}

	p := &Preview{c: c}
	if c.surface != nil {
		c.mu.Lock()
		audioURI := ""
		if c.draft.Audio != nil {
			audioURI = c.draft.Audio.URI
		}
		videoURI := c.draft.VideoURI
		c.mu.Unlock()

		if audioURI != "" {
			h, err := c.surface.Create(ctx, audioURI)
			if err != nil {
				c.log.Warn("preview audio player failed", "uri", audioURI, "error", err)
			} else {
				p.audio = h
			}
		}
		if videoURI != "" {
			h, err := c.surface.Create(ctx, videoURI)
			if err != nil {
				c.log.Warn("preview video player failed", "uri", videoURI, "error", err)
			} else {
				p.video = h
			}
		}
	}

	c.mu.Lock()
	c.state = StatePreviewing
	c.preview = p
	c.mu.Unlock()
	return p, nil
}

// Close releases any open preview and pending toast timer. Must run when the
// compose screen goes away.
func (c *Composer) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	p := c.preview
	c.preview = nil
	if c.toastTimer != nil {
		c.toastTimer.Stop()
		c.toastTimer = nil
	}
	c.mu.Unlock()

	if p != nil {
		p.release()
	}
}

// finishConfirm runs after a successful submission: fresh draft, bumped reset
// token, transient success toast.
func (c *Composer) finishConfirm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Reset()
	c.resetToken++
	c.state = StateEditing
	c.preview = nil

	if c.toastTimer != nil {
		c.toastTimer.Stop()
	}
	c.toastVisible = true
	c.toastTimer = c.clock.AfterFunc(c.toastDur, func() {
		c.mu.Lock()
		c.toastVisible = false
		c.mu.Unlock()
	})
}
