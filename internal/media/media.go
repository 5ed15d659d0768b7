package media

import (
	"context"
	"time"
)

// PickedAudio is an audio file chosen from the document picker.
type PickedAudio struct {
	URI         string
	SizeBytes   int64
	DisplayName string
}

// Picker is the media capture/selection surface. Every call either returns a
// result or ErrCaptureCancelled; there are no partial results. The production
// picker is wrapped by Gated so no call reaches the native layer without
// passing the permission gate.
type Picker interface {
	PickImages(ctx context.Context, maxCount int) ([]string, error)
	PickVideo(ctx context.Context, maxDuration time.Duration) (string, error)
	PickAudioFile(ctx context.Context) (PickedAudio, error)
	CapturePhoto(ctx context.Context) (string, error)
}

// Thumbnailer extracts a still frame from a local video.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, videoURI string) (string, error)
}

// Device is the raw audio capture hardware. Stop returns the URI of the
// recorded file.
type Device interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (string, error)
}

// Clip is a finished recording offered to the user.
type Clip struct {
	URI      string
	Duration time.Duration
}
