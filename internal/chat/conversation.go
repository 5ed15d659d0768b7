package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/crinzping/feed-engine/internal/domain"
	"github.com/crinzping/feed-engine/internal/media"
	"github.com/crinzping/feed-engine/internal/playback"
	"github.com/crinzping/feed-engine/internal/player"
	apperrors "github.com/crinzping/feed-engine/pkg/errors"
	"github.com/crinzping/feed-engine/pkg/logger"
	"github.com/jonboulle/clockwork"
)

type Opts struct {
	Logger   logger.Logger
	Clock    clockwork.Clock
	Picker   media.Picker
	Recorder *media.Recorder
	Surface  player.Surface
	Self     string
}

// Conversation is one open chat thread. It owns every media resource the
// thread holds: the voice recorder, the pending-clip preview player and the
// inline players of sent audio messages (at most one of those playing at a
// time, through the shared playback controller). Closing the conversation
// releases all of them.
type Conversation struct {
	log      logger.Logger
	clock    clockwork.Clock
	picker   media.Picker
	recorder *media.Recorder
	surface  player.Surface
	self     string

	inline *playback.Controller

	mu       sync.Mutex
	messages []domain.Message
	counter  int
	pending  *pendingAudio
	closed   bool
}

// pendingAudio is a recorded clip awaiting send or discard, with its preview
// player. The handle may be nil when the preview player failed to open.
type pendingAudio struct {
	clip   media.Clip
	handle player.Handle
}

func NewConversation(opts Opts) *Conversation {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Conversation{
		log:      opts.Logger,
		clock:    clock,
		picker:   opts.Picker,
		recorder: opts.Recorder,
		surface:  opts.Surface,
		self:     opts.Self,
		inline:   playback.NewController(opts.Logger, opts.Surface, false),
	}
}

// Messages returns the thread in send order.
func (c *Conversation) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Message(nil), c.messages...)
}

func (c *Conversation) SendText(text string) (domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, apperrors.Wrap(apperrors.ErrValidation, "empty message")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.Message{}, apperrors.New("conversation closed")
	}
	return c.appendLocked(domain.Message{
		Type: domain.MessageText,
		Text: text,
	}), nil
}

// SendImageFromGallery picks one image and sends it. A cancelled picker sends
// nothing; a denied permission surfaces as an error with nothing sent.
func (c *Conversation) SendImageFromGallery(ctx context.Context) (domain.Message, error) {
	uris, err := c.picker.PickImages(ctx, 1)
	if err != nil {
		if apperrors.IsCaptureCancelled(err) {
			return domain.Message{}, nil
		}
		return domain.Message{}, err
	}
	if len(uris) == 0 {
		return domain.Message{}, nil
	}
	return c.sendImage(uris[0])
}

// SendImageFromCamera captures a photo and sends it, under the camera
// permission.
func (c *Conversation) SendImageFromCamera(ctx context.Context) (domain.Message, error) {
	uri, err := c.picker.CapturePhoto(ctx)
	if err != nil {
		if apperrors.IsCaptureCancelled(err) {
			return domain.Message{}, nil
		}
		return domain.Message{}, err
	}
	return c.sendImage(uri)
}

func (c *Conversation) sendImage(uri string) (domain.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.Message{}, apperrors.New("conversation closed")
	}
	return c.appendLocked(domain.Message{
		Type:     domain.MessageImage,
		ImageURI: uri,
	}), nil
}

// StartRecording begins a voice message. The microphone permission is
// re-checked on every attempt.
func (c *Conversation) StartRecording(ctx context.Context) error {
	return c.recorder.Start(ctx)
}

// StopRecording ends the recording and stages the clip for preview. A clip
// shorter than the minimum is discarded by the recorder and nothing is
// staged. A previously staged clip is dropped in favor of the new one.
func (c *Conversation) StopRecording(ctx context.Context) error {
	clip, err := c.recorder.Stop(ctx)
	if err != nil {
		return err
	}

	var handle player.Handle
	if c.surface != nil {
		handle, err = c.surface.Create(ctx, clip.URI)
		if err != nil {
			c.log.Warn("voice preview player failed", "uri", clip.URI, "error", err)
			handle = nil
		}
	}

	c.mu.Lock()
	old := c.pending
	c.pending = &pendingAudio{clip: clip, handle: handle}
	c.mu.Unlock()

	if old != nil {
		releasePending(old)
	}
	return nil
}

// CancelRecording aborts an in-progress recording without staging anything.
func (c *Conversation) CancelRecording(ctx context.Context) {
	c.recorder.Cancel(ctx)
}

// PendingClip reports the staged voice clip, if any.
func (c *Conversation) PendingClip() (media.Clip, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return media.Clip{}, false
	}
	return c.pending.clip, true
}

// TogglePendingPlayback plays or pauses the staged clip's preview.
func (c *Conversation) TogglePendingPlayback() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil || c.pending.handle == nil {
		return nil
	}
	h := c.pending.handle
	if h.IsPlaying() {
		return h.Pause()
	}
	return h.Play()
}

// SendAudio turns the staged clip into a message. The preview handle is
// released; inline playback of the sent message gets its own player.
func (c *Conversation) SendAudio() (domain.Message, error) {
	c.mu.Lock()
	p := c.pending
	c.pending = nil
	if p == nil {
		c.mu.Unlock()
		return domain.Message{}, apperrors.New("no recorded clip to send")
	}
	msg := c.appendLocked(domain.Message{
		Type:     domain.MessageAudio,
		AudioURI: p.clip.URI,
		Duration: p.clip.Duration,
	})
	c.mu.Unlock()

	releasePending(p)
	return msg, nil
}

// CancelAudio discards the staged clip, releasing its preview player.
func (c *Conversation) CancelAudio() {
	c.mu.Lock()
	p := c.pending
	c.pending = nil
	c.mu.Unlock()

	if p != nil {
		releasePending(p)
	}
}

// PlayMessage starts inline playback of a sent audio message, pausing
// whichever message was playing before it.
func (c *Conversation) PlayMessage(ctx context.Context, messageID string) error {
	c.mu.Lock()
	var uri string
	for _, m := range c.messages {
		if m.ID == messageID {
			uri = m.AudioURI
			break
		}
	}
	c.mu.Unlock()
	if uri == "" {
		return apperrors.New(fmt.Sprintf("message %q carries no audio", messageID))
	}

	c.inline.Render(ctx, messageID, uri)
	c.inline.SetActive(messageID)
	return nil
}

// ToggleMessagePlayback pauses or resumes the inline player of a message.
func (c *Conversation) ToggleMessagePlayback(messageID string) {
	c.inline.TogglePlay(messageID)
}

// IsMessagePlaying reports inline playback state for a message.
func (c *Conversation) IsMessagePlaying(messageID string) bool {
	return c.inline.IsPlaying(messageID)
}

// Close tears the thread down: stops any recording, drops the staged clip and
// releases every inline player.
func (c *Conversation) Close(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	p := c.pending
	c.pending = nil
	c.mu.Unlock()

	c.recorder.Cancel(ctx)
	if p != nil {
		releasePending(p)
	}
	c.inline.Close()
}

func (c *Conversation) appendLocked(msg domain.Message) domain.Message {
	c.counter++
	msg.ID = fmt.Sprintf("msg-%d", c.counter)
	msg.Sender = c.self
	msg.SentAt = c.clock.Now()
	c.messages = append(c.messages, msg)
	return msg
}

func releasePending(p *pendingAudio) {
	if p.handle == nil {
		return
	}
	_ = p.handle.Pause()
	p.handle.Release()
}
