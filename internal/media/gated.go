package media

import (
	"context"
	"time"

	"github.com/crinzping/feed-engine/internal/permission"
)

// Gated fronts a raw picker with the permission gate. The gate runs on every
// call, including audio file selection, so there is no path to a capture API
// that skips it.
type Gated struct {
	gate *permission.Gate
	raw  Picker
}

var _ Picker = (*Gated)(nil)

func NewGated(gate *permission.Gate, raw Picker) *Gated {
	return &Gated{gate: gate, raw: raw}
}

func (g *Gated) PickImages(ctx context.Context, maxCount int) ([]string, error) {
	if err := g.gate.Request(ctx, permission.MediaLibrary); err != nil {
		return nil, err
	}
	return g.raw.PickImages(ctx, maxCount)
}

func (g *Gated) PickVideo(ctx context.Context, maxDuration time.Duration) (string, error) {
	if err := g.gate.Request(ctx, permission.MediaLibrary); err != nil {
		return "", err
	}
	return g.raw.PickVideo(ctx, maxDuration)
}

func (g *Gated) PickAudioFile(ctx context.Context) (PickedAudio, error) {
	if err := g.gate.Request(ctx, permission.MediaLibrary); err != nil {
		return PickedAudio{}, err
	}
	return g.raw.PickAudioFile(ctx)
}

func (g *Gated) CapturePhoto(ctx context.Context) (string, error) {
	if err := g.gate.Request(ctx, permission.Camera); err != nil {
		return "", err
	}
	return g.raw.CapturePhoto(ctx)
}
