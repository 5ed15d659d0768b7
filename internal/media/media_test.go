package media_test

import (
	"context"
	"testing"
	"time"

	"github.com/crinzping/feed-engine/internal/media"
	"github.com/crinzping/feed-engine/internal/media/mediaimpl"
	"github.com/crinzping/feed-engine/internal/permission"
	"github.com/crinzping/feed-engine/internal/permission/permissionimpl"
	apperrors "github.com/crinzping/feed-engine/pkg/errors"
	"github.com/crinzping/feed-engine/pkg/logger"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGate(bridge *permissionimpl.MemoryBridge) *permission.Gate {
	return permission.NewGate(bridge, &permissionimpl.LogNotifier{Logger: logger.NewNop()}, logger.NewNop())
}

func TestGatedPickerDeniedNeverOpensDialog(t *testing.T) {
	bridge := permissionimpl.NewMemoryBridge()
	bridge.SetStatus(permission.MediaLibrary, permission.Denied)
	raw := mediaimpl.NewMemoryPicker()
	raw.QueueImages("file://a.jpg")
	picker := media.NewGated(newGate(bridge), raw)

	uris, err := picker.PickImages(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, apperrors.IsPermissionDenied(err))
	assert.Empty(t, uris)
	assert.Zero(t, raw.Invocations(), "denied permission must not invoke the picker")
}

func TestGatedPickerGrantedPassesThrough(t *testing.T) {
	bridge := permissionimpl.NewMemoryBridge()
	raw := mediaimpl.NewMemoryPicker()
	raw.QueueImages("file://a.jpg", "file://b.jpg")
	picker := media.NewGated(newGate(bridge), raw)

	uris, err := picker.PickImages(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"file://a.jpg", "file://b.jpg"}, uris)
}

func TestGatedPickerCancelIsNotAnError(t *testing.T) {
	bridge := permissionimpl.NewMemoryBridge()
	picker := media.NewGated(newGate(bridge), mediaimpl.NewMemoryPicker())

	_, err := picker.PickVideo(context.Background(), time.Minute)
	assert.True(t, apperrors.IsCaptureCancelled(err))
}

func TestGatedCameraUsesCameraPermission(t *testing.T) {
	bridge := permissionimpl.NewMemoryBridge()
	bridge.SetStatus(permission.Camera, permission.Denied)
	raw := mediaimpl.NewMemoryPicker()
	raw.QueuePhoto("file://shot.jpg")
	picker := media.NewGated(newGate(bridge), raw)

	_, err := picker.CapturePhoto(context.Background())
	assert.True(t, apperrors.IsPermissionDenied(err))
	assert.Zero(t, raw.Invocations())
}

func newRecorder(t *testing.T, bridge *permissionimpl.MemoryBridge, device media.Device, clock clockwork.Clock) *media.Recorder {
	t.Helper()
	return media.NewRecorder(media.RecorderOpts{
		Gate:   newGate(bridge),
		Device: device,
		Clock:  clock,
		Logger: logger.NewNop(),
	})
}

func TestRecorderHappyPath(t *testing.T) {
	bridge := permissionimpl.NewMemoryBridge()
	device := mediaimpl.NewMemoryDevice()
	clock := clockwork.NewFakeClock()
	r := newRecorder(t, bridge, device, clock)
	ctx := context.Background()

	require.NoError(t, r.Start(ctx))
	assert.True(t, device.Active())

	clock.Advance(3 * time.Second)
	clip, err := r.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, clip.Duration)
	assert.NotEmpty(t, clip.URI)
	assert.False(t, device.Active())
}

func TestRecorderTooShortIsDiscarded(t *testing.T) {
	bridge := permissionimpl.NewMemoryBridge()
	device := mediaimpl.NewMemoryDevice()
	clock := clockwork.NewFakeClock()
	r := newRecorder(t, bridge, device, clock)
	ctx := context.Background()

	require.NoError(t, r.Start(ctx))
	clock.Advance(500 * time.Millisecond)

	clip, err := r.Stop(ctx)
	assert.True(t, apperrors.IsRecordingTooShort(err))
	assert.Empty(t, clip.URI)
	assert.False(t, device.Active(), "device must be stopped even when the clip is discarded")
}

func TestRecorderMicrophoneDeniedNeverTouchesDevice(t *testing.T) {
	bridge := permissionimpl.NewMemoryBridge()
	bridge.SetStatus(permission.Microphone, permission.Denied)
	device := mediaimpl.NewMemoryDevice()
	r := newRecorder(t, bridge, device, clockwork.NewFakeClock())

	err := r.Start(context.Background())
	assert.True(t, apperrors.IsPermissionDenied(err))
	assert.False(t, device.Active())
}

func TestRecorderCancelStopsDevice(t *testing.T) {
	bridge := permissionimpl.NewMemoryBridge()
	device := mediaimpl.NewMemoryDevice()
	clock := clockwork.NewFakeClock()
	r := newRecorder(t, bridge, device, clock)
	ctx := context.Background()

	require.NoError(t, r.Start(ctx))
	r.Cancel(ctx)
	assert.False(t, device.Active())
	assert.False(t, r.Recording())

	// Cancel when idle is a no-op.
	r.Cancel(ctx)
}

func TestRecorderElapsed(t *testing.T) {
	bridge := permissionimpl.NewMemoryBridge()
	device := mediaimpl.NewMemoryDevice()
	clock := clockwork.NewFakeClock()
	r := newRecorder(t, bridge, device, clock)
	ctx := context.Background()

	assert.Zero(t, r.Elapsed())
	require.NoError(t, r.Start(ctx))
	clock.Advance(2 * time.Second)
	assert.Equal(t, 2*time.Second, r.Elapsed())
}
