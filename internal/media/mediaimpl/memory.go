package mediaimpl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/crinzping/feed-engine/internal/media"
	apperrors "github.com/crinzping/feed-engine/pkg/errors"
)

// MemoryPicker is a scripted picker standing in for the native selection
// dialogs. With nothing queued it behaves like a user who cancels.
type MemoryPicker struct {
	mu          sync.Mutex
	imageQueue  [][]string
	videoQueue  []string
	audioQueue  []media.PickedAudio
	photoQueue  []string
	invocations int
}

var _ media.Picker = (*MemoryPicker)(nil)

func NewMemoryPicker() *MemoryPicker {
	return &MemoryPicker{}
}

func (p *MemoryPicker) QueueImages(uris ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.imageQueue = append(p.imageQueue, uris)
}
func (p *MemoryPicker) QueueVideo(uri string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.videoQueue = append(p.videoQueue, uri)
}
func (p *MemoryPicker) QueueAudio(a media.PickedAudio) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.audioQueue = append(p.audioQueue, a)
}
func (p *MemoryPicker) QueuePhoto(uri string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.photoQueue = append(p.photoQueue, uri)
}

// Invocations counts how many times any native dialog was opened.
func (p *MemoryPicker) Invocations() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.invocations
}

func (p *MemoryPicker) PickImages(ctx context.Context, maxCount int) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invocations++
	if len(p.imageQueue) == 0 {
		return nil, apperrors.ErrCaptureCancelled
	}
	uris := p.imageQueue[0]
	p.imageQueue = p.imageQueue[1:]
	if maxCount >= 0 && len(uris) > maxCount {
		uris = uris[:maxCount]
	}
	return uris, nil
}

func (p *MemoryPicker) PickVideo(ctx context.Context, maxDuration time.Duration) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invocations++
	if len(p.videoQueue) == 0 {
		return "", apperrors.ErrCaptureCancelled
	}
	uri := p.videoQueue[0]
	p.videoQueue = p.videoQueue[1:]
	return uri, nil
}

func (p *MemoryPicker) PickAudioFile(ctx context.Context) (media.PickedAudio, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invocations++
	if len(p.audioQueue) == 0 {
		return media.PickedAudio{}, apperrors.ErrCaptureCancelled
	}
	a := p.audioQueue[0]
	p.audioQueue = p.audioQueue[1:]
	return a, nil
}

func (p *MemoryPicker) CapturePhoto(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invocations++
	if len(p.photoQueue) == 0 {
		return "", apperrors.ErrCaptureCancelled
	}
	uri := p.photoQueue[0]
	p.photoQueue = p.photoQueue[1:]
	return uri, nil
}

// MemoryDevice simulates the audio capture hardware.
type MemoryDevice struct {
	mu      sync.Mutex
	active  bool
	counter int
	failing bool
}

var _ media.Device = (*MemoryDevice)(nil)

func NewMemoryDevice() *MemoryDevice {
	return &MemoryDevice{}
}

func (d *MemoryDevice) SetFailing(failing bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failing = failing
}

// Active reports whether the hardware is currently capturing.
func (d *MemoryDevice) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

func (d *MemoryDevice) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failing {
		return apperrors.New("capture device unavailable")
	}
	if d.active {
		return apperrors.New("device already capturing")
	}
	d.active = true
	return nil
}

func (d *MemoryDevice) Stop(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.active {
		return "", apperrors.New("device not capturing")
	}
	d.active = false
	d.counter++
	return fmt.Sprintf("file://recordings/clip-%d.m4a", d.counter), nil
}

// MemoryThumbnailer derives a deterministic thumbnail URI per video.
type MemoryThumbnailer struct {
	mu      sync.Mutex
	failing bool
}

var _ media.Thumbnailer = (*MemoryThumbnailer)(nil)

func NewMemoryThumbnailer() *MemoryThumbnailer {
	return &MemoryThumbnailer{}
}

func (t *MemoryThumbnailer) SetFailing(failing bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failing = failing
}

func (t *MemoryThumbnailer) Thumbnail(ctx context.Context, videoURI string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failing {
		return "", apperrors.Wrap(apperrors.ErrMediaLoadFailure, "thumbnail extraction failed")
	}
	return videoURI + ".thumb.jpg", nil
}
