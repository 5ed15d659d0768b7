package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/crinzping/feed-engine/internal/chat"
	"github.com/crinzping/feed-engine/internal/domain"
	"github.com/crinzping/feed-engine/internal/media"
	"github.com/crinzping/feed-engine/internal/media/mediaimpl"
	"github.com/crinzping/feed-engine/internal/permission"
	"github.com/crinzping/feed-engine/internal/permission/permissionimpl"
	"github.com/crinzping/feed-engine/internal/player/playerimpl"
	apperrors "github.com/crinzping/feed-engine/pkg/errors"
	"github.com/crinzping/feed-engine/pkg/logger"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type chatFixture struct {
	conv    *chat.Conversation
	bridge  *permissionimpl.MemoryBridge
	picker  *mediaimpl.MemoryPicker
	device  *mediaimpl.MemoryDevice
	surface *playerimpl.Memory
	clock   *clockwork.FakeClock
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	f := &chatFixture{
		bridge:  permissionimpl.NewMemoryBridge(),
		picker:  mediaimpl.NewMemoryPicker(),
		device:  mediaimpl.NewMemoryDevice(),
		surface: playerimpl.New(logger.NewNop()),
		clock:   clockwork.NewFakeClock(),
	}
	gate := permission.NewGate(f.bridge, &permissionimpl.LogNotifier{Logger: logger.NewNop()}, logger.NewNop())
	recorder := media.NewRecorder(media.RecorderOpts{
		Gate:   gate,
		Device: f.device,
		Clock:  f.clock,
		Logger: logger.NewNop(),
	})
	f.conv = chat.NewConversation(chat.Opts{
		Logger:   logger.NewNop(),
		Clock:    f.clock,
		Picker:   media.NewGated(gate, f.picker),
		Recorder: recorder,
		Surface:  f.surface,
		Self:     "crinzping",
	})
	t.Cleanup(func() { f.conv.Close(context.Background()) })
	return f
}

func (f *chatFixture) recordClip(t *testing.T, d time.Duration) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.conv.StartRecording(ctx))
	f.clock.Advance(d)
	require.NoError(t, f.conv.StopRecording(ctx))
}

func TestSendText(t *testing.T) {
	f := newChatFixture(t)

	msg, err := f.conv.SendText("hey there")
	require.NoError(t, err)
	assert.Equal(t, domain.MessageText, msg.Type)
	assert.Equal(t, "crinzping", msg.Sender)
	assert.NotEmpty(t, msg.ID)

	_, err = f.conv.SendText("   ")
	assert.True(t, apperrors.IsValidation(err))

	assert.Len(t, f.conv.Messages(), 1)
}

func TestSendImageFromGallery(t *testing.T) {
	f := newChatFixture(t)
	f.picker.QueueImages("file://pic.jpg")

	msg, err := f.conv.SendImageFromGallery(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.MessageImage, msg.Type)
	assert.Equal(t, "file://pic.jpg", msg.ImageURI)
}

func TestSendImageCancelledPickerSendsNothing(t *testing.T) {
	f := newChatFixture(t)

	msg, err := f.conv.SendImageFromGallery(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msg.ID)
	assert.Empty(t, f.conv.Messages())
}

func TestSendImageFromCameraDenied(t *testing.T) {
	f := newChatFixture(t)
	f.bridge.SetStatus(permission.Camera, permission.Denied)
	f.picker.QueuePhoto("file://shot.jpg")

	_, err := f.conv.SendImageFromCamera(context.Background())
	assert.True(t, apperrors.IsPermissionDenied(err))
	assert.Empty(t, f.conv.Messages())
	assert.Zero(t, f.picker.Invocations())
}

func TestVoiceMessageRecordPreviewSend(t *testing.T) {
	f := newChatFixture(t)
	f.recordClip(t, 3*time.Second)

	clip, ok := f.conv.PendingClip()
	require.True(t, ok)
	assert.Equal(t, 3*time.Second, clip.Duration)
	assert.Equal(t, 1, f.surface.OpenHandles(), "staged clip owns a preview player")

	require.NoError(t, f.conv.TogglePendingPlayback())
	assert.Equal(t, 1, f.surface.PlayingCount())

	msg, err := f.conv.SendAudio()
	require.NoError(t, err)
	assert.Equal(t, domain.MessageAudio, msg.Type)
	assert.Equal(t, clip.URI, msg.AudioURI)
	assert.Equal(t, 3*time.Second, msg.Duration)

	assert.Zero(t, f.surface.OpenHandles(), "send releases the preview player")
	_, ok = f.conv.PendingClip()
	assert.False(t, ok)
}

func TestVoiceMessageCancelReleasesPreview(t *testing.T) {
	f := newChatFixture(t)
	f.recordClip(t, 2*time.Second)
	require.Equal(t, 1, f.surface.OpenHandles())

	f.conv.CancelAudio()
	assert.Zero(t, f.surface.OpenHandles())
	assert.Empty(t, f.conv.Messages())

	_, err := f.conv.SendAudio()
	assert.Error(t, err, "nothing staged after cancel")
}

func TestTooShortClipIsDiscarded(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	require.NoError(t, f.conv.StartRecording(ctx))
	f.clock.Advance(400 * time.Millisecond)
	err := f.conv.StopRecording(ctx)
	assert.True(t, apperrors.IsRecordingTooShort(err))

	_, ok := f.conv.PendingClip()
	assert.False(t, ok)
	assert.Zero(t, f.surface.OpenHandles())
	assert.False(t, f.device.Active(), "device must stop even for discarded clips")
}

func TestMicrophoneDeniedBlocksRecording(t *testing.T) {
	f := newChatFixture(t)
	f.bridge.SetStatus(permission.Microphone, permission.Denied)

	err := f.conv.StartRecording(context.Background())
	assert.True(t, apperrors.IsPermissionDenied(err))
	assert.False(t, f.device.Active())
}

func TestInlinePlaybackOneMessageAtATime(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	f.recordClip(t, 2*time.Second)
	first, err := f.conv.SendAudio()
	require.NoError(t, err)
	f.recordClip(t, 4*time.Second)
	second, err := f.conv.SendAudio()
	require.NoError(t, err)

	require.NoError(t, f.conv.PlayMessage(ctx, first.ID))
	assert.True(t, f.conv.IsMessagePlaying(first.ID))

	require.NoError(t, f.conv.PlayMessage(ctx, second.ID))
	assert.True(t, f.conv.IsMessagePlaying(second.ID))
	assert.False(t, f.conv.IsMessagePlaying(first.ID), "starting one message pauses the other")
	assert.LessOrEqual(t, f.surface.PlayingCount(), 1)

	f.conv.ToggleMessagePlayback(second.ID)
	assert.False(t, f.conv.IsMessagePlaying(second.ID))
}

func TestPlayMessageRejectsNonAudio(t *testing.T) {
	f := newChatFixture(t)
	msg, err := f.conv.SendText("not audio")
	require.NoError(t, err)

	assert.Error(t, f.conv.PlayMessage(context.Background(), msg.ID))
}

func TestCloseReleasesEverything(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	f.recordClip(t, 2*time.Second)
	sent, err := f.conv.SendAudio()
	require.NoError(t, err)
	require.NoError(t, f.conv.PlayMessage(ctx, sent.ID))

	f.recordClip(t, 5*time.Second) // staged, unsent
	require.NoError(t, f.conv.StartRecording(ctx))

	f.conv.Close(ctx)
	assert.Zero(t, f.surface.OpenHandles(), "close releases inline and preview players")
	assert.False(t, f.device.Active(), "close stops an in-progress recording")

	_, err = f.conv.SendText("after close")
	assert.Error(t, err)
}
