package media

import (
	"context"
	"sync"
	"time"

	"github.com/crinzping/feed-engine/internal/permission"
	apperrors "github.com/crinzping/feed-engine/pkg/errors"
	"github.com/crinzping/feed-engine/pkg/logger"
	"github.com/jonboulle/clockwork"
)

// MinRecordingDuration is the floor under which a stopped recording is
// discarded instead of being offered to the user.
const MinRecordingDuration = time.Second

// Recorder drives one audio capture device. The microphone permission is
// re-requested on every Start. Stop below the minimum duration discards the
// clip; Cancel and Close always stop the device, so a recorder owned by a
// closing view never keeps the hardware open.
type Recorder struct {
	gate        *permission.Gate
	device      Device
	clock       clockwork.Clock
	log         logger.Logger
	minDuration time.Duration

	mu        sync.Mutex
	recording bool
	startedAt time.Time
}

type RecorderOpts struct {
	Gate   *permission.Gate
	Device Device
	Clock  clockwork.Clock
	Logger logger.Logger
	// MinDuration defaults to MinRecordingDuration when zero.
	MinDuration time.Duration
}

func NewRecorder(opts RecorderOpts) *Recorder {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	min := opts.MinDuration
	if min <= 0 {
		min = MinRecordingDuration
	}
	return &Recorder{
		gate:        opts.Gate,
		device:      opts.Device,
		clock:       clock,
		log:         opts.Logger,
		minDuration: min,
	}
}

func (r *Recorder) Start(ctx context.Context) error {
	if err := r.gate.Request(ctx, permission.Microphone); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return apperrors.New("already recording")
	}
	if err := r.device.Start(ctx); err != nil {
		return apperrors.Wrap(err, "failed to start recording")
	}
	r.recording = true
	r.startedAt = r.clock.Now()
	return nil
}

// Stop ends the recording. Only a clip of at least the minimum duration is
// usable; anything shorter is discarded with ErrRecordingTooShort.
func (r *Recorder) Stop(ctx context.Context) (Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return Clip{}, apperrors.New("not recording")
	}
	r.recording = false

	uri, err := r.device.Stop(ctx)
	if err != nil {
		return Clip{}, apperrors.Wrap(err, "failed to stop recording")
	}

	duration := r.clock.Since(r.startedAt)
	if duration < r.minDuration {
		r.log.Debug("recording below minimum duration, discarding",
			"duration", duration, "min", r.minDuration)
		return Clip{}, apperrors.Wrap(apperrors.ErrRecordingTooShort, "recording discarded")
	}
	return Clip{URI: uri, Duration: duration}, nil
}

// Cancel stops the device and throws the recording away. Safe to call when
// not recording.
func (r *Recorder) Cancel(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}
	r.recording = false
	if _, err := r.device.Stop(ctx); err != nil {
		r.log.Warn("failed to stop recording device on cancel", "error", err)
	}
}

func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Elapsed reports how long the current recording has been running.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return 0
	}
	return r.clock.Since(r.startedAt)
}
